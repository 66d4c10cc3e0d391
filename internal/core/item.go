// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Status describes where a review item is in its lifecycle. An item starts as
// StatusProcessing and moves exactly once to either StatusCompleted or
// StatusError. Both of those are terminal.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further automatic transition can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// NoTextPlaceholder is stored as the transcription when recognition succeeds
// but yields no text after trimming whitespace.
const NoTextPlaceholder = "no text detected"

// GenericExtractionError is the user-facing message used when the OCR engine
// fails without providing one of its own.
const GenericExtractionError = "text recognition failed"

// ReviewItem is one captured test page together with its extracted text and
// the user's review metadata.
//
// Progress is only meaningful while Status is StatusProcessing and is not
// persisted across runs, hence the json:"-" tag.
type ReviewItem struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	ImageRef       string    `json:"image_ref"`
	SourceFileName string    `json:"source_file_name"`
	Transcription  string    `json:"transcription"`
	Subject        string    `json:"subject"`
	Notes          string    `json:"notes"`
	Status         Status    `json:"status"`
	Progress       int       `json:"-"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}

// NewReviewItem builds a freshly created item in its initial state: processing,
// zero progress, no transcription, no error.
func NewReviewItem(id, imageRef, sourceFileName string) *ReviewItem {
	return &ReviewItem{
		ID:             id,
		CreatedAt:      time.Now(),
		ImageRef:       imageRef,
		SourceFileName: sourceFileName,
		Status:         StatusProcessing,
		Progress:       0,
	}
}

// Clone returns an independent copy of the item.
func (i *ReviewItem) Clone() *ReviewItem {
	c := *i
	return &c
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewID generates a new ULID string. ULIDs sort lexicographically by creation
// time, which keeps id ordering consistent with the newest-first display
// order; the shared monotonic entropy keeps ids unique within one clock tick.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ReviewEdit carries a user edit of the review metadata. Subject and Notes are
// always replaced together as one atomic patch, never individually.
type ReviewEdit struct {
	Subject string
	Notes   string
}

// Patch is a partial field change applied to the item matching an id. Nil
// fields are left untouched. Status transitions are only honored while the
// item is still processing; Review is honored in any state.
type Patch struct {
	Progress      *int
	Status        *Status
	Transcription *string
	ErrorMessage  *string
	Review        *ReviewEdit
}
