package core

import (
	"context"
	"slices"
	"strings"
)

// Business is a single directory entry as persisted by a Store.
type Business struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	StreetName string   `json:"streetName"`
	Zipcode    string   `json:"zipcode"`
	City       string   `json:"city"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Tags       []string `json:"tags"`
	Comment    string   `json:"comment"`
	IsActive   bool     `json:"isActive"`
}

// BusinessInput is the payload for creating a business.
// IsActive is a pointer so an omitted value can default to true.
type BusinessInput struct {
	Name       string   `json:"name"`
	StreetName string   `json:"streetName"`
	Zipcode    string   `json:"zipcode"`
	City       string   `json:"city"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Tags       []string `json:"tags"`
	Comment    string   `json:"comment"`
	IsActive   *bool    `json:"isActive,omitempty"`

	// invalidActive holds a spreadsheet value that could not be read as a
	// boolean. Validate rejects inputs carrying one.
	invalidActive string
}

// Active returns the effective active flag.
func (in BusinessInput) Active() bool {
	if in.IsActive == nil {
		return true
	}
	return *in.IsActive
}

// Normalize trims every text field and cleans the tag list.
func (in BusinessInput) Normalize() BusinessInput {
	in.Name = strings.TrimSpace(in.Name)
	in.StreetName = strings.TrimSpace(in.StreetName)
	in.Zipcode = strings.TrimSpace(in.Zipcode)
	in.City = strings.TrimSpace(in.City)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Comment = strings.TrimSpace(in.Comment)
	in.Tags = MergeTags(in.Tags)
	return in
}

// NewBusiness builds the stored form of an input under the given id.
func NewBusiness(id string, in BusinessInput) Business {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return Business{
		ID:         id,
		Name:       in.Name,
		StreetName: in.StreetName,
		Zipcode:    in.Zipcode,
		City:       in.City,
		Email:      in.Email,
		Phone:      in.Phone,
		Tags:       slices.Clone(tags),
		Comment:    in.Comment,
		IsActive:   in.Active(),
	}
}

// Clone returns a copy that shares no memory with b.
func (b Business) Clone() Business {
	b.Tags = slices.Clone(b.Tags)
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b
}

// BusinessPatch is a partial update. A nil field is left unchanged; it
// never clears the stored value.
type BusinessPatch struct {
	Name       *string   `json:"name,omitempty"`
	StreetName *string   `json:"streetName,omitempty"`
	Zipcode    *string   `json:"zipcode,omitempty"`
	City       *string   `json:"city,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Comment    *string   `json:"comment,omitempty"`
	IsActive   *bool     `json:"isActive,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p BusinessPatch) Empty() bool {
	return p.Name == nil && p.StreetName == nil && p.Zipcode == nil &&
		p.City == nil && p.Email == nil && p.Phone == nil &&
		p.Tags == nil && p.Comment == nil && p.IsActive == nil
}

// Normalize trims present text fields and cleans present tags.
func (p BusinessPatch) Normalize() BusinessPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	p.Name = trim(p.Name)
	p.StreetName = trim(p.StreetName)
	p.Zipcode = trim(p.Zipcode)
	p.City = trim(p.City)
	p.Email = trim(p.Email)
	p.Phone = trim(p.Phone)
	p.Comment = trim(p.Comment)
	if p.Tags != nil {
		tags := MergeTags(*p.Tags)
		p.Tags = &tags
	}
	return p
}

// Apply returns b with every present patch field written over it.
func (p BusinessPatch) Apply(b Business) Business {
	b = b.Clone()
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.StreetName != nil {
		b.StreetName = *p.StreetName
	}
	if p.Zipcode != nil {
		b.Zipcode = *p.Zipcode
	}
	if p.City != nil {
		b.City = *p.City
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.Tags != nil {
		b.Tags = slices.Clone(*p.Tags)
		if b.Tags == nil {
			b.Tags = []string{}
		}
	}
	if p.Comment != nil {
		b.Comment = *p.Comment
	}
	if p.IsActive != nil {
		b.IsActive = *p.IsActive
	}
	return b
}

// Store is the persistence capability shared by every storage backend.
// Implementations receive validated, normalized input.
type Store interface {
	List(ctx context.Context) ([]Business, error)
	Get(ctx context.Context, id string) (Business, error)
	Create(ctx context.Context, in BusinessInput) (Business, error)
	Update(ctx context.Context, id string, patch BusinessPatch) (Business, error)
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, in []BusinessInput) ([]Business, error)
}

// StorageMode records which backend was selected at startup.
type StorageMode string

const (
	// StorageMemory is used when no database is configured or it is disabled.
	StorageMemory StorageMode = "memory"
	// StoragePostgres is used when the configured database is reachable.
	StoragePostgres StorageMode = "postgres"
	// StorageUnavailable means a database was configured but could not be
	// reached. Requests are refused rather than served from memory.
	StorageUnavailable StorageMode = "unavailable"
)

// AuthRequired reports whether callers must authenticate in this mode.
func (m StorageMode) AuthRequired() bool {
	return m == StoragePostgres
}

// Available reports whether the mode can serve requests.
func (m StorageMode) Available() bool {
	return m != StorageUnavailable
}

// Filter narrows a business listing. Zero values match everything.
type Filter struct {
	Query   string   // Case-insensitive substring over text fields and tags
	Tags    []string // Any-of match
	City    string   // Case-insensitive exact match
	Zipcode string   // Case-insensitive exact match, spaces ignored
	Active  *bool
}

// Match reports whether b satisfies every condition in f.
func (f Filter) Match(b Business) bool {
	if f.Active != nil && b.IsActive != *f.Active {
		return false
	}
	if f.City != "" && !strings.EqualFold(strings.TrimSpace(f.City), b.City) {
		return false
	}
	if f.Zipcode != "" && !strings.EqualFold(compactZipcode(f.Zipcode), compactZipcode(b.Zipcode)) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(t string) bool {
		return slices.Contains(b.Tags, t)
	}) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		fields := []string{b.Name, b.StreetName, b.Zipcode, b.City, b.Email, b.Phone, b.Comment}
		fields = append(fields, b.Tags...)
		if !slices.ContainsFunc(fields, func(s string) bool {
			return strings.Contains(strings.ToLower(s), q)
		}) {
			return false
		}
	}
	return true
}

func compactZipcode(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}
