package article

import (
	"fmt"
	"time"
)

// DateLayout is the persisted publication-date form, minute precision.
const DateLayout = "200601021504"

// legacyNone is the absent-value sentinel older registry files used instead
// of JSON null. It is accepted on read and never written back.
const legacyNone = "__None__"

// record is the persisted shape of one registry entry. Optional fields
// serialize as null.
type record struct {
	Source       *string `json:"source"`
	Target       string  `json:"target"`
	PubDate      string  `json:"pub_date"`
	Title        string  `json:"title"`
	HTMLFilename *string `json:"html_filename"`
	AMPFilename  *string `json:"amp_filename"`
}

func toRecord(a *Article) record {
	return record{
		Source:       a.Source,
		Target:       a.Target,
		PubDate:      a.PublicationDate.UTC().Format(DateLayout),
		Title:        a.Title,
		HTMLFilename: a.HTMLFilename,
		AMPFilename:  a.AMPFilename,
	}
}

func fromRecord(rec record) (*Article, error) {
	date, err := time.Parse(DateLayout, rec.PubDate)
	if err != nil {
		return nil, fmt.Errorf("parse pub_date %q: %w", rec.PubDate, err)
	}
	a := &Article{
		Source:          normalizeOptional(rec.Source),
		Target:          normalizeString(rec.Target),
		PublicationDate: date,
		Title:           normalizeString(rec.Title),
		HTMLFilename:    normalizeOptional(rec.HTMLFilename),
		AMPFilename:     normalizeOptional(rec.AMPFilename),
	}
	return a, nil
}

func normalizeOptional(value *string) *string {
	if value == nil || *value == legacyNone {
		return nil
	}
	return value
}

func normalizeString(value string) string {
	if value == legacyNone {
		return ""
	}
	return value
}
