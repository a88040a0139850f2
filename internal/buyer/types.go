// Package buyer defines the lead data model and its validation rules.
package buyer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// City is the buyer's target city.
type City string

// PropertyType is the kind of property the buyer is looking for.
type PropertyType string

// BHK is the bedroom configuration, used for Apartment and Villa only.
type BHK string

// Purpose is whether the buyer wants to buy or rent.
type Purpose string

// Timeline is the buyer's purchase horizon.
type Timeline string

// Source is how the lead reached us.
type Source string

// Status is the lead's position in the sales funnel.
type Status string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"

	PropertyApartment PropertyType = "Apartment"
	PropertyVilla     PropertyType = "Villa"
	PropertyPlot      PropertyType = "Plot"
	PropertyOffice    PropertyType = "Office"
	PropertyRetail    PropertyType = "Retail"

	BHKOne    BHK = "ONE"
	BHKTwo    BHK = "TWO"
	BHKThree  BHK = "THREE"
	BHKFour   BHK = "FOUR"
	BHKStudio BHK = "STUDIO"

	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"

	TimelineZeroTo3M   Timeline = "ZERO_TO_3M"
	TimelineThreeTo6M  Timeline = "THREE_TO_6M"
	TimelineMoreThan6M Timeline = "MORE_THAN_6M"
	TimelineExploring  Timeline = "EXPLORING"

	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceWalkIn   Source = "Walk_in"
	SourceCall     Source = "Call"
	SourceOther    Source = "Other"

	StatusNew         Status = "New"
	StatusQualified   Status = "Qualified"
	StatusContacted   Status = "Contacted"
	StatusVisited     Status = "Visited"
	StatusNegotiation Status = "Negotiation"
	StatusConverted   Status = "Converted"
	StatusDropped     Status = "Dropped"
)

// CityValues lists the allowed cities in display order.
var CityValues = []City{CityChandigarh, CityMohali, CityZirakpur, CityPanchkula, CityOther}

// PropertyTypeValues lists the allowed property types.
var PropertyTypeValues = []PropertyType{PropertyApartment, PropertyVilla, PropertyPlot, PropertyOffice, PropertyRetail}

// BHKValues lists the allowed BHK configurations.
var BHKValues = []BHK{BHKOne, BHKTwo, BHKThree, BHKFour, BHKStudio}

// PurposeValues lists the allowed purposes.
var PurposeValues = []Purpose{PurposeBuy, PurposeRent}

// TimelineValues lists the allowed timelines.
var TimelineValues = []Timeline{TimelineZeroTo3M, TimelineThreeTo6M, TimelineMoreThan6M, TimelineExploring}

// SourceValues lists the allowed lead sources.
var SourceValues = []Source{SourceWebsite, SourceReferral, SourceWalkIn, SourceCall, SourceOther}

// StatusValues lists the allowed statuses.
var StatusValues = []Status{StatusNew, StatusQualified, StatusContacted, StatusVisited, StatusNegotiation, StatusConverted, StatusDropped}

// Buyer is one prospective buyer lead as stored.
type Buyer struct {
	ID           uuid.UUID    `json:"id"`
	FullName     string       `json:"fullName"`
	Email        *string      `json:"email"`
	Phone        string       `json:"phone"`
	City         City         `json:"city"`
	PropertyType PropertyType `json:"propertyType"`
	BHK          *BHK         `json:"bhk"`
	Purpose      Purpose      `json:"purpose"`
	BudgetMin    *int64       `json:"budgetMin"`
	BudgetMax    *int64       `json:"budgetMax"`
	Timeline     Timeline     `json:"timeline"`
	Source       Source       `json:"source"`
	Status       Status       `json:"status"`
	Notes        *string      `json:"notes"`
	Tags         []string     `json:"tags"`
	OwnerID      uuid.UUID    `json:"ownerId"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// HistoryEntry records one change to a buyer. Entries are append-only.
type HistoryEntry struct {
	ID              uuid.UUID       `json:"id"`
	BuyerID         uuid.UUID       `json:"buyerId"`
	ChangedByUserID uuid.UUID       `json:"changedByUserId"`
	ChangedBy       string          `json:"changedBy"`
	ChangedAt       time.Time       `json:"changedAt"`
	Diff            json.RawMessage `json:"diff"`
}

// Filter selects buyers for listing and export. Query matches name, phone,
// and email case-insensitively; the enum fields match exactly when non-empty.
type Filter struct {
	Query        string
	City         string
	PropertyType string
	Status       string
	Timeline     string
}

// Number is a raw numeric field value. It accepts both JSON numbers and JSON
// strings so the same payload shape works for API clients and HTML forms;
// the validator does the actual parsing.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("budget must be a number or string: %w", err)
	}
	*n = Number(num.String())
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// Input is a candidate buyer record before validation. String fields hold raw
// values as received from a JSON body or a CSV cell; an empty string means
// the field is absent. Tags is nil when absent and non-nil (possibly empty)
// when supplied.
type Input struct {
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	City         string   `json:"city"`
	PropertyType string   `json:"propertyType"`
	BHK          string   `json:"bhk"`
	Purpose      string   `json:"purpose"`
	BudgetMin    Number   `json:"budgetMin"`
	BudgetMax    Number   `json:"budgetMax"`
	Timeline     string   `json:"timeline"`
	Source       string   `json:"source"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
}

// Patch is a normalized partial record produced by the validator. A nil
// pointer means the field was absent from the input. Tags follows the same
// convention: nil means absent, an empty non-nil slice means "no tags".
type Patch struct {
	FullName     *string
	Email        *string
	Phone        *string
	City         *City
	PropertyType *PropertyType
	BHK          *BHK
	Purpose      *Purpose
	BudgetMin    *int64
	BudgetMax    *int64
	Timeline     *Timeline
	Source       *Source
	Status       *Status
	Notes        *string
	Tags         []string
}

// Record is a complete, normalized buyer ready for insertion.
type Record struct {
	FullName     string
	Email        *string
	Phone        string
	City         City
	PropertyType PropertyType
	BHK          *BHK
	Purpose      Purpose
	BudgetMin    *int64
	BudgetMax    *int64
	Timeline     Timeline
	Source       Source
	Status       Status
	Notes        *string
	Tags         []string
}
