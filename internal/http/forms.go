package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/semg6/personal-library/internal/readingstate"
)

const dateLayout = "2006-01-02"

// stateForm is the reading-state form on the library page.
//
// Browsers submit every input, so the form treats an empty value, and "0"
// for numbers, as "not supplied". That means the form can never store a zero
// page or rating; the JSON API can. Notes are cleared with the clear_notes
// checkbox.
type stateForm struct {
	UserID      string `form:"user_id"`
	Status      string `form:"status"`
	CurrentPage string `form:"current_page"`
	UserRating  string `form:"user_rating"`
	Notes       string `form:"notes"`
	ClearNotes  bool   `form:"clear_notes"`
	StartedDate string `form:"started_date"`
	ReadDate    string `form:"read_date"`
}

func (f stateForm) patch() (readingstate.Patch, error) {
	var p readingstate.Patch
	var err error

	if s := strings.TrimSpace(f.Status); s != "" {
		p.Status = &s
	}
	if p.CurrentPage, err = formInt(f.CurrentPage, "current page"); err != nil {
		return p, err
	}
	if p.UserRating, err = formInt(f.UserRating, "rating"); err != nil {
		return p, err
	}
	if f.ClearNotes {
		empty := ""
		p.Notes = &empty
	} else if notes := strings.TrimSpace(f.Notes); notes != "" {
		p.Notes = &notes
	}
	if p.StartedDate, err = parseDate(f.StartedDate, "started date"); err != nil {
		return p, err
	}
	if p.ReadDate, err = parseDate(f.ReadDate, "read date"); err != nil {
		return p, err
	}
	return p, nil
}

func formInt(raw, field string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", field)
	}
	return &n, nil
}

// statePatchRequest is the JSON body of the reading-state API. Absent keys
// leave stored values alone; "notes": "" clears the notes.
type statePatchRequest struct {
	Status      *string `json:"status" binding:"omitempty,min=1,max=32"`
	CurrentPage *int    `json:"current_page" binding:"omitempty,gte=0"`
	UserRating  *int    `json:"user_rating" binding:"omitempty,gte=0,lte=5"`
	Notes       *string `json:"notes"`
	StartedDate *string `json:"started_date"`
	ReadDate    *string `json:"read_date"`
}

func (r statePatchRequest) patch() (readingstate.Patch, error) {
	p := readingstate.Patch{
		Status:      r.Status,
		CurrentPage: r.CurrentPage,
		UserRating:  r.UserRating,
		Notes:       r.Notes,
	}
	var err error
	if r.StartedDate != nil {
		if p.StartedDate, err = parseRequiredDate(*r.StartedDate, "started_date"); err != nil {
			return p, err
		}
	}
	if r.ReadDate != nil {
		if p.ReadDate, err = parseRequiredDate(*r.ReadDate, "read_date"); err != nil {
			return p, err
		}
	}
	return p, nil
}

func parseDate(raw, field string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return parseRequiredDate(raw, field)
}

func parseRequiredDate(raw, field string) (*time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD)", field)
	}
	return &t, nil
}

// addBookRequest is the JSON body of POST /api/books.
type addBookRequest struct {
	ISBN string `json:"isbn" binding:"required"`
}

// bindStatePatch decodes the JSON body into a patch.
func bindStatePatch(c *gin.Context) (readingstate.Patch, error) {
	var req statePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return readingstate.Patch{}, err
	}
	return req.patch()
}
