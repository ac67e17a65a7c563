package form

import (
	"context"
	"errors"
	"sync"

	"github.com/ecotrack/console/internal/api"
	"github.com/ecotrack/console/internal/models"
	"github.com/go-playground/validator/v10"
)

// submitFailedMessage is the fallback when the server gives no message.
const submitFailedMessage = "Could not save the announcement. Please try again."

// Kind distinguishes which action drove a submission.
type Kind string

const (
	KindDraft     Kind = "draft"     // new item, saved as draft
	KindPublished Kind = "published" // new item, published immediately
	KindUpdate    Kind = "update"    // existing item, full resubmit
)

// Phase is the position inside the open dialog's state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseFailed
)

// SubmissionState is a tagged value replacing a pile of per-action
// booleans; two submission kinds can never be active at once.
type SubmissionState struct {
	Phase  Phase
	Kind   Kind
	Reason string // server message when Phase == PhaseFailed
}

// Values are the editable fields of the add/edit dialog.
type Values struct {
	Title    string          `validate:"required"`
	Content  string          `validate:"required"`
	Image    string          `validate:"required"`
	Category models.Category `validate:"required,oneof=general maintenance brownout"`
}

// Submitter is the slice of the API client the form needs; *api.Client
// satisfies it.
type Submitter interface {
	CreateNews(ctx context.Context, input api.NewsInput) (models.NewsItem, error)
	UpdateNews(ctx context.Context, id string, input api.NewsInput) (models.NewsItem, error)
	PublishNews(ctx context.Context, id string) (models.NewsItem, error)
	SetArchived(ctx context.Context, id string, archived bool) (models.NewsItem, error)
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}

// RefreshFunc is called after any successful mutation; the news screen
// wires it to the controller's ResetAndFetch. There is no optimistic
// local patching, every success triggers a full page-1 reload.
type RefreshFunc func(ctx context.Context)

// Form drives the add/edit dialog and the per-row actions of the news
// screen.
type Form struct {
	mu       sync.Mutex
	client   Submitter
	refresh  RefreshFunc
	validate *validator.Validate

	open      bool
	editing   *models.NewsItem // nil while adding a new item
	values    Values
	fieldErrs map[string]string
	state     SubmissionState

	// archiveBusy tracks the toggled row only, so no other row shows a
	// busy state during the call.
	archiveBusy map[string]bool
	archiveErr  string
}

// New creates a form bound to the API client and the list refresh hook.
func New(client Submitter, refresh RefreshFunc) *Form {
	return &Form{
		client:      client,
		refresh:     refresh,
		validate:    validator.New(),
		archiveBusy: make(map[string]bool),
	}
}

// OpenNew opens an empty dialog for a new announcement.
func (f *Form) OpenNew() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	f.editing = nil
	f.values = Values{Category: models.CategoryGeneral}
	f.fieldErrs = nil
	f.state = SubmissionState{}
}

// OpenEdit opens the dialog prefilled from an existing item.
func (f *Form) OpenEdit(item models.NewsItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	itemCopy := item
	f.editing = &itemCopy
	f.values = Values{
		Title:    item.Title,
		Content:  item.Content,
		Image:    item.Image,
		Category: item.Category,
	}
	f.fieldErrs = nil
	f.state = SubmissionState{}
}

// Close dismisses the dialog and clears everything entered.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.editing = nil
	f.values = Values{}
	f.fieldErrs = nil
	f.state = SubmissionState{}
}

// SetValues replaces the entered field values.
func (f *Form) SetValues(v Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = v
}

// Snapshot is a render-ready copy of the dialog state.
type Snapshot struct {
	Open        bool
	Editing     *models.NewsItem
	Values      Values
	FieldErrors map[string]string
	State       SubmissionState
	ArchiveBusy map[string]bool
	ArchiveErr  string
}

// View returns a copy of the current state for rendering.
func (f *Form) View() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	errsCopy := make(map[string]string, len(f.fieldErrs))
	for k, v := range f.fieldErrs {
		errsCopy[k] = v
	}
	busyCopy := make(map[string]bool, len(f.archiveBusy))
	for k, v := range f.archiveBusy {
		busyCopy[k] = v
	}
	var editing *models.NewsItem
	if f.editing != nil {
		itemCopy := *f.editing
		editing = &itemCopy
	}
	return Snapshot{
		Open:        f.open,
		Editing:     editing,
		Values:      f.values,
		FieldErrors: errsCopy,
		State:       f.state,
		ArchiveBusy: busyCopy,
		ArchiveErr:  f.archiveErr,
	}
}

// Submit validates and sends the entered values. Validation runs before
// any network call: failing fields are flagged individually and no
// request is issued. An embedded data-URI image is uploaded first and
// replaced by the canonical URL the server returns; the raw payload is
// never submitted. On success the dialog closes and the list refreshes;
// on failure the dialog stays open with every entered value intact.
func (f *Form) Submit(ctx context.Context, kind Kind) {
	f.mu.Lock()
	if !f.open || f.state.Phase == PhaseSubmitting {
		f.mu.Unlock()
		return
	}

	if errs := f.validateLocked(); len(errs) > 0 {
		f.fieldErrs = errs
		f.mu.Unlock()
		return
	}
	f.fieldErrs = nil
	f.state = SubmissionState{Phase: PhaseSubmitting, Kind: kind}
	values := f.values
	editing := f.editing
	f.mu.Unlock()

	image := values.Image
	if payload, ok := api.DecodeDataURI(image); ok {
		url, err := f.client.UploadImage(ctx, "upload.png", payload)
		if err != nil {
			f.fail(err)
			return
		}
		image = url
	}

	input := api.NewsInput{
		Title:    values.Title,
		Content:  values.Content,
		Image:    image,
		Category: values.Category,
	}

	var err error
	if editing != nil {
		// Edits resubmit the full field set with the item's current
		// status; publishing is a separate row action.
		input.Status = editing.Status
		_, err = f.client.UpdateNews(ctx, editing.ID, input)
	} else {
		switch kind {
		case KindPublished:
			input.Status = models.StatusPublished
		default:
			input.Status = models.StatusDraft
		}
		_, err = f.client.CreateNews(ctx, input)
	}
	if err != nil {
		f.fail(err)
		return
	}

	f.Close()
	f.refresh(ctx)
}

// Publish issues the status-only draft to published transition for a
// row, outside the dialog.
func (f *Form) Publish(ctx context.Context, id string) {
	if _, err := f.client.PublishNews(ctx, id); err != nil {
		f.mu.Lock()
		f.archiveErr = actionMessage(err)
		f.mu.Unlock()
		return
	}
	f.refresh(ctx)
}

// ToggleArchive flips the archive flag of one row. Only that row's busy
// flag is set for the duration of the call. Success triggers a full
// refresh; failure surfaces an inline error without refreshing.
func (f *Form) ToggleArchive(ctx context.Context, item models.NewsItem) {
	f.mu.Lock()
	if f.archiveBusy[item.ID] {
		f.mu.Unlock()
		return
	}
	f.archiveBusy[item.ID] = true
	f.archiveErr = ""
	f.mu.Unlock()

	_, err := f.client.SetArchived(ctx, item.ID, !item.IsArchived)

	f.mu.Lock()
	delete(f.archiveBusy, item.ID)
	if err != nil {
		f.archiveErr = actionMessage(err)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	f.refresh(ctx)
}

// validateLocked maps validator tags to per-field messages. Caller
// holds the lock.
func (f *Form) validateLocked() map[string]string {
	err := f.validate.Struct(f.values)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": submitFailedMessage}
	}

	fieldErrs := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fieldErrs[fe.Field()] = fe.Field() + " is required"
		case "oneof":
			fieldErrs[fe.Field()] = fe.Field() + " must be one of: " + fe.Param()
		default:
			fieldErrs[fe.Field()] = fe.Field() + " is invalid"
		}
	}
	return fieldErrs
}

func (f *Form) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = SubmissionState{Phase: PhaseFailed, Reason: actionMessage(err)}
}

func actionMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return submitFailedMessage
}
