package model

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationError collects every problem found in a submitted form so they
// can be shown to the user at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid form: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

const MaxNewsImages = 5

// MediaFile is a file attached to an upload.
type MediaFile struct {
	Name   string
	Reader io.Reader
}

// UploadRequest is a video or image news report submitted for moderation.
type UploadRequest struct {
	Kind        Kind
	Title       string
	Description string
	Tags        string
	Category    string
	Scope       Scope
	State       string
	District    string
	Files       []MediaFile
	Thumbnail   *MediaFile
}

// Location renders the location recorded for the upload, most specific first.
func (r UploadRequest) Location() string {
	if r.Scope != ScopeIndia {
		return "Global"
	}
	var parts []string
	if r.District != "" {
		parts = append(parts, r.District)
	}
	if r.State != "" {
		parts = append(parts, r.State)
	}
	return strings.Join(append(parts, "India"), ", ")
}

func (r UploadRequest) Validate() error {
	v := &ValidationError{}

	if n := utf8.RuneCountInString(strings.TrimSpace(r.Title)); n < 5 || n > 100 {
		v.add("headline is required (5-100 chars)")
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Description)) < 10 {
		v.add("description is too short (min 10 chars)")
	}
	if r.Category == "" || r.Category == CategoryAll {
		v.add("please select a category")
	}
	if !r.Scope.Valid() {
		v.add("please select a location")
	}
	if r.Scope == ScopeIndia && r.State == "" {
		v.add("state is required for India")
	}

	switch r.Kind {
	case KindVideo:
		if len(r.Files) == 0 {
			v.add("video file is missing")
		}
	case KindImageNews:
		if len(r.Files) == 0 {
			v.add("at least one news image is required")
		}
		if len(r.Files) > MaxNewsImages {
			v.add("you can only upload up to %d images", MaxNewsImages)
		}
	default:
		v.add("unknown content kind %q", r.Kind)
	}

	return v.orNil()
}

type Registration struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ContactNumber string `json:"contactNumber"`
}

var contactNumberRe = regexp.MustCompile(`^[0-9]{10}$`)

func (r Registration) Validate() error {
	v := &ValidationError{}

	if _, err := mail.ParseAddress(r.Email); err != nil {
		v.add("a valid email is required")
	}
	if n := utf8.RuneCountInString(r.Username); n < 3 || n > 20 {
		v.add("username must be 3-20 chars")
	}
	if utf8.RuneCountInString(r.FirstName) < 2 {
		v.add("first name must be at least 2 chars")
	}
	if utf8.RuneCountInString(r.LastName) < 2 {
		v.add("last name must be at least 2 chars")
	}
	if len(r.Password) < 6 {
		v.add("password must be at least 6 chars")
	}
	if !contactNumberRe.MatchString(r.ContactNumber) {
		v.add("contact number must be 10 digits")
	}

	return v.orNil()
}

const (
	AdTypeVideo     = "video-ad"
	AdTypeBanner    = "banner"
	AdTypeSponsored = "sponsored-post"
)

// AdSubmission is the advertise form. A media reference is required for
// every ad type except sponsored posts.
type AdSubmission struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	AdType        string `json:"adType"`
	Description   string `json:"description"`
	Scope         Scope  `json:"scope"`
	State         string `json:"state"`
	District      string `json:"district"`
	MediaURL      string `json:"media"`
}

func (s AdSubmission) Validate() error {
	v := &ValidationError{}

	switch s.AdType {
	case AdTypeVideo:
		if !strings.Contains(s.Description, "30 seconds") {
			v.add("video ads must be 30 seconds or less")
		}
	case AdTypeBanner, AdTypeSponsored:
	default:
		v.add("ad type must be one of %s, %s, %s", AdTypeVideo, AdTypeBanner, AdTypeSponsored)
	}
	if s.MediaURL == "" && s.AdType != AdTypeSponsored {
		v.add("please upload a file for your ad")
	}
	if s.Scope != "" && !s.Scope.Valid() {
		v.add("scope must be india or global")
	}

	return v.orNil()
}

// Record converts a validated submission into the record kept in the local
// store. An empty scope means global.
func (s AdSubmission) Record(id string, now time.Time) AdRecord {
	scope := s.Scope
	if scope == "" {
		scope = ScopeGlobal
	}
	return AdRecord{
		ID:            id,
		Scope:         scope,
		State:         s.State,
		District:      s.District,
		MediaURL:      s.MediaURL,
		Name:          s.Name,
		Email:         s.Email,
		ContactNumber: s.ContactNumber,
		AdType:        s.AdType,
		Description:   s.Description,
		CreatedAt:     now,
	}
}
