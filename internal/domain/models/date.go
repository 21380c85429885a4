package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayouts are the timestamp forms the panel API answers with.
var DateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// ParseDate parses s in any of DateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// apiDate decodes a reply timestamp. null and "" leave it unset.
type apiDate struct {
	t   time.Time
	set bool
}

func (d *apiDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.t, d.set = t, true
	return nil
}

// UnmarshalJSON accepts every form in DateLayouts for the timestamps. Dates
// missing from data keep their current value, so a partial reply merges into
// an existing record.
func (d *Domain) UnmarshalJSON(data []byte) error {
	type plain Domain
	aux := struct {
		*plain
		CreatedDate    apiDate `json:"created_date"`
		UpdatedDate    apiDate `json:"updated_date"`
		TransferDate   apiDate `json:"transfer_date"`
		ExpirationDate apiDate `json:"expiration_date"`
		Expires        apiDate `json:"expires"`
		Since          apiDate `json:"since"`
		PremExpires    apiDate `json:"prem_expires"`
		Registered     apiDate `json:"registered"`
		Operated       apiDate `json:"operated"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	for _, f := range []struct {
		src apiDate
		dst **time.Time
	}{
		{aux.CreatedDate, &d.CreatedDate},
		{aux.UpdatedDate, &d.UpdatedDate},
		{aux.TransferDate, &d.TransferDate},
		{aux.ExpirationDate, &d.ExpirationDate},
		{aux.Expires, &d.Expires},
		{aux.Since, &d.Since},
		{aux.PremExpires, &d.PremExpires},
		{aux.Registered, &d.Registered},
		{aux.Operated, &d.Operated},
	} {
		if f.src.set {
			t := f.src.t
			*f.dst = &t
		}
	}
	return nil
}
