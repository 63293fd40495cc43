package cv

import (
	"context"
	"time"
)

// Prompts shown before removals.
const (
	RemoveEntryPrompt = "Are you sure you want to delete this item?"
	RemoveGroupPrompt = "Are you sure you want to delete this highlight group?"
	RemoveItemPrompt  = "Are you sure you want to delete this highlight item?"
)

// Notice messages.
const (
	LoadFailedMessage = "Failed to load CV data. Starting with blank template."
	SavedMessage      = "CV successfully updated!"
	SaveFailedMessage = "Failed to save CV modifications."
)

// SuccessNoticeTTL is how long the save confirmation stays visible.
const SuccessNoticeTTL = 3 * time.Second

// NoticeKind distinguishes success and error banners.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a banner shown above the editor. A zero ExpiresAt never expires.
type Notice struct {
	Kind      NoticeKind
	Message   string
	ExpiresAt time.Time
}

// ActiveAt reports whether the notice should still be shown at now.
func (n Notice) ActiveAt(now time.Time) bool {
	if n.Message == "" {
		return false
	}
	return n.ExpiresAt.IsZero() || now.Before(n.ExpiresAt)
}

// TTL returns the remaining display time at now; zero for persistent notices.
func (n Notice) TTL(now time.Time) time.Duration {
	if n.ExpiresAt.IsZero() {
		return 0
	}
	return n.ExpiresAt.Sub(now)
}

// Source fetches the stored document.
type Source interface {
	Get(ctx context.Context) (*Document, error)
}

// Sink replaces the stored document.
type Sink interface {
	Update(ctx context.Context, d Document) (*Document, error)
}

// Editor owns the draft CV. Removals go through the confirm capability so the
// editor stays testable without a UI.
type Editor struct {
	doc     Document
	confirm func(prompt string) bool
	now     func() time.Time
	notice  Notice
}

// NewEditor creates an editor holding a blank document.
func NewEditor(confirm func(prompt string) bool) *Editor {
	return &Editor{doc: Blank(), confirm: confirm, now: time.Now}
}

// WithClock overrides the editor's time source.
func (e *Editor) WithClock(now func() time.Time) *Editor {
	e.now = now
	return e
}

// SetConfirm swaps the confirmation capability.
func (e *Editor) SetConfirm(confirm func(prompt string) bool) {
	e.confirm = confirm
}

// Document returns a deep copy of the current draft.
func (e *Editor) Document() Document {
	return e.doc.Clone()
}

// Notice returns the banner in effect now, if any.
func (e *Editor) Notice() (Notice, bool) {
	if e.notice.ActiveAt(e.now()) {
		return e.notice, true
	}
	return Notice{}, false
}

// ClearNotice removes any banner.
func (e *Editor) ClearNotice() {
	e.notice = Notice{}
}

// Load fetches the document. On failure the editor falls back to a blank
// document, sets a persistent error notice, and returns the fetch error.
func (e *Editor) Load(ctx context.Context, src Source) error {
	e.notice = Notice{}
	d, err := src.Get(ctx)
	if err != nil {
		e.doc = Blank()
		e.notice = Notice{Kind: NoticeError, Message: LoadFailedMessage}
		return err
	}
	if d == nil {
		e.doc = Blank()
		return nil
	}
	e.doc = Normalize(*d)
	return nil
}

// Replace installs d as the draft, normalized.
func (e *Editor) Replace(d Document) {
	e.doc = Normalize(d)
}

// SetScalar updates one leaf field by path.
func (e *Editor) SetScalar(path, value string) error {
	return e.apply(func(d Document) (Document, error) { return SetScalar(d, path, value) })
}

// AddEntry appends a blank entry to section.
func (e *Editor) AddEntry(section Section) error {
	return e.apply(func(d Document) (Document, error) { return AddEntry(d, section) })
}

// RemoveEntry removes the entry at index after confirmation.
// Returns false when the user declined.
func (e *Editor) RemoveEntry(section Section, index int) (bool, error) {
	return e.confirmed(RemoveEntryPrompt, func(d Document) (Document, error) {
		return RemoveEntry(d, section, index)
	})
}

// AddHighlightGroup appends an empty group to experience entry exp.
func (e *Editor) AddHighlightGroup(exp int) error {
	return e.apply(func(d Document) (Document, error) { return AddHighlightGroup(d, exp) })
}

// RemoveHighlightGroup removes a group after confirmation.
func (e *Editor) RemoveHighlightGroup(exp, g int) (bool, error) {
	return e.confirmed(RemoveGroupPrompt, func(d Document) (Document, error) {
		return RemoveHighlightGroup(d, exp, g)
	})
}

// AddHighlightItem appends an empty item to a group.
func (e *Editor) AddHighlightItem(exp, g int) error {
	return e.apply(func(d Document) (Document, error) { return AddHighlightItem(d, exp, g) })
}

// RemoveHighlightItem removes an item after confirmation.
func (e *Editor) RemoveHighlightItem(exp, g, i int) (bool, error) {
	return e.confirmed(RemoveItemPrompt, func(d Document) (Document, error) {
		return RemoveHighlightItem(d, exp, g, i)
	})
}

// Save validates and replaces the stored document. Local edits are kept on
// failure.
func (e *Editor) Save(ctx context.Context, sink Sink) error {
	e.notice = Notice{}
	if err := Validate(e.doc); err != nil {
		e.notice = Notice{Kind: NoticeError, Message: SaveFailedMessage}
		return err
	}
	if _, err := sink.Update(ctx, e.doc.Clone()); err != nil {
		e.notice = Notice{Kind: NoticeError, Message: SaveFailedMessage}
		return err
	}
	e.notice = Notice{
		Kind:      NoticeSuccess,
		Message:   SavedMessage,
		ExpiresAt: e.now().Add(SuccessNoticeTTL),
	}
	return nil
}

func (e *Editor) apply(op func(Document) (Document, error)) error {
	next, err := op(e.doc)
	if err != nil {
		return err
	}
	e.doc = next
	return nil
}

func (e *Editor) confirmed(prompt string, op func(Document) (Document, error)) (bool, error) {
	if e.confirm == nil || !e.confirm(prompt) {
		return false, nil
	}
	if err := e.apply(op); err != nil {
		return false, err
	}
	return true, nil
}
