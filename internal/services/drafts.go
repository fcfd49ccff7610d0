package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"smartgrader-composer/internal/composer"
	"smartgrader-composer/internal/importer"
	"smartgrader-composer/internal/models"
	"smartgrader-composer/internal/ws"

	"github.com/google/uuid"
)

const DiscardPrompt = "Are you sure you want to cancel? All unsaved changes will be lost."

var (
	ErrDraftBusy            = errors.New("another request for this draft is still in progress")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Grader is the part of the SmartGrader API the drafts depend on.
type Grader interface {
	SubmitTest(ctx context.Context, payload *composer.Payload) (*SubmitResult, error)
	GenerateQuestions(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

// Notifier pushes state and toasts to the editors of a draft.
type Notifier interface {
	Broadcast(draftID string, message ws.WSMessage)
}

type nopNotifier struct{}

func (nopNotifier) Broadcast(string, ws.WSMessage) {}

type draft struct {
	mu   sync.Mutex
	form *composer.FormState
	// busy is set while a submit or generate call is in flight.
	busy bool
	// closed is set once the draft was submitted or discarded. A holder of a
	// stale *draft must not write it back.
	closed bool
}

// DraftService owns the open drafts. Each draft is mutated under its own lock.
type DraftService struct {
	mu     sync.Mutex
	drafts map[string]*draft

	store          DraftStore
	grader         Grader
	notifier       Notifier
	defaultOptions int
}

func NewDraftService(store DraftStore, grader Grader, notifier Notifier, defaultOptions int) *DraftService {
	if store == nil {
		store = NewMemoryDraftStore()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &DraftService{
		drafts:         make(map[string]*draft),
		store:          store,
		grader:         grader,
		notifier:       notifier,
		defaultOptions: defaultOptions,
	}
}

// Create opens a new draft seeded with one blank question.
func (s *DraftService) Create(ctx context.Context) (string, composer.View, error) {
	id := uuid.NewString()
	form := composer.New(s.defaultOptions)
	form.AddBlank()

	d := &draft{form: form}
	s.mu.Lock()
	s.drafts[id] = d
	s.mu.Unlock()
	openDrafts.Inc()

	d.mu.Lock()
	defer d.mu.Unlock()
	log.Printf("drafts: created %s", id)
	return id, s.changed(ctx, id, form), nil
}

func (s *DraftService) lookup(ctx context.Context, id string) (*draft, error) {
	s.mu.Lock()
	d, ok := s.drafts[id]
	s.mu.Unlock()
	if ok {
		return d, nil
	}

	snap, err := s.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.drafts[id]; ok {
		return existing, nil
	}
	d = &draft{form: composer.Restore(snap)}
	s.drafts[id] = d
	openDrafts.Inc()
	log.Printf("drafts: restored %s from autosave", id)
	return d, nil
}

func (s *DraftService) View(ctx context.Context, id string) (composer.View, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return composer.View{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return composer.View{}, ErrDraftNotFound
	}
	return d.form.Render(), nil
}

// Mutate applies fn to the draft. On success the draft is autosaved and the
// new state is pushed to its editors.
func (s *DraftService) Mutate(ctx context.Context, id string, fn func(*composer.FormState) error) (composer.View, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return composer.View{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return composer.View{}, ErrDraftNotFound
	}
	if err := fn(d.form); err != nil {
		return composer.View{}, err
	}
	return s.changed(ctx, id, d.form), nil
}

// RemoveQuestion deletes a question only when the caller confirmed it.
func (s *DraftService) RemoveQuestion(ctx context.Context, id string, questionID int, confirmed bool) (composer.View, error) {
	return s.Mutate(ctx, id, func(f *composer.FormState) error {
		removed, err := f.Remove(questionID, func(string) bool { return confirmed })
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%w: %s", ErrConfirmationRequired, composer.RemovePrompt)
		}
		return nil
	})
}

// Import replaces the draft's questions with the parsed file. A file that
// fails to parse, or holds no usable question, leaves the draft as it was.
func (s *DraftService) Import(ctx context.Context, id, filename string, data []byte) (int, composer.View, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return 0, composer.View{}, err
	}

	format := formatName(filename)
	items, err := importer.ParseFile(filename, data)
	if err != nil {
		imports.WithLabelValues(format, "failed").Inc()
		s.toast(id, models.NewToast(models.ToastError, "Import failed", err.Error()))
		return 0, composer.View{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, composer.View{}, ErrDraftNotFound
	}
	count, err := d.form.Import(items)
	if err != nil {
		imports.WithLabelValues(format, "empty").Inc()
		perr := &importer.ParseError{Format: format, Err: err}
		s.toast(id, models.NewToast(models.ToastError, "Import failed", perr.Error()))
		return 0, composer.View{}, perr
	}

	imports.WithLabelValues(format, "success").Inc()
	view := s.changed(ctx, id, d.form)
	log.Printf("drafts: imported %d questions into %s from %s", count, id, filename)
	s.toast(id, models.NewToast(models.ToastSuccess, "Import complete", fmt.Sprintf("Imported %d questions", count)))
	return count, view, nil
}

// Generate asks the server for questions and appends the usable ones.
func (s *DraftService) Generate(ctx context.Context, id string, req GenerateRequest) (int, composer.View, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return 0, composer.View{}, err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0, composer.View{}, ErrDraftNotFound
	}
	if d.busy {
		d.mu.Unlock()
		return 0, composer.View{}, ErrDraftBusy
	}
	d.busy = true
	req.NumOptions = d.form.OptionCount()
	d.mu.Unlock()

	result, err := s.grader.GenerateQuestions(ctx, req)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = false
	if d.closed {
		log.Printf("drafts: %s closed during generation, dropping result", id)
		return 0, composer.View{}, ErrDraftNotFound
	}
	if err != nil {
		generations.WithLabelValues("failed").Inc()
		log.Printf("drafts: generate for %s failed: %v", id, err)
		s.toast(id, models.NewToast(models.ToastError, "Generation failed", err.Error()))
		return 0, composer.View{}, err
	}

	added := 0
	for _, q := range result.Questions {
		if _, err := d.form.AddFromData(q); err == nil {
			added++
		}
	}
	generations.WithLabelValues("success").Inc()
	view := s.changed(ctx, id, d.form)
	if added == 0 {
		s.toast(id, models.NewToast(models.ToastWarning, "No questions generated", "Try a different topic"))
	} else {
		s.toast(id, models.NewToast(models.ToastSuccess, "Questions generated", fmt.Sprintf("Added %d questions", added)))
	}
	return added, view, nil
}

// Submit validates the draft and sends it to the server. A successful
// submission closes the draft.
func (s *DraftService) Submit(ctx context.Context, id string, generatePDF bool) (*SubmitResult, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrDraftNotFound
	}
	if d.busy {
		d.mu.Unlock()
		return nil, ErrDraftBusy
	}
	payload, err := composer.BuildPayload(d.form, generatePDF)
	if err != nil {
		d.mu.Unlock()
		submissions.WithLabelValues("invalid").Inc()
		s.toast(id, models.NewToast(models.ToastError, "Cannot save test", err.Error()))
		return nil, err
	}
	d.busy = true
	d.mu.Unlock()

	result, err := s.grader.SubmitTest(ctx, payload)

	d.mu.Lock()
	d.busy = false
	d.mu.Unlock()
	if err != nil {
		submissions.WithLabelValues("failed").Inc()
		log.Printf("drafts: submit for %s failed: %v", id, err)
		s.toast(id, models.NewToast(models.ToastError, "An error occurred while saving the test. Please try again.", err.Error()))
		return nil, err
	}

	submissions.WithLabelValues("success").Inc()
	msg := result.Message
	if links := result.PDFLinks(); len(links) > 0 {
		msg += " PDF: " + strings.Join(links, ", ")
	}
	s.toast(id, models.NewToast(models.ToastSuccess, "Test saved", msg))
	s.remove(ctx, id, d)
	log.Printf("drafts: submitted %s as test %d", id, result.TestID)
	return result, nil
}

// Discard closes a draft without submitting it.
func (s *DraftService) Discard(ctx context.Context, id string, confirmed bool) error {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if !confirmed {
		return fmt.Errorf("%w: %s", ErrConfirmationRequired, DiscardPrompt)
	}
	if !s.remove(ctx, id, d) {
		return ErrDraftNotFound
	}
	log.Printf("drafts: discarded %s", id)
	return nil
}

// Export returns the draft's questions as they stand, without validation.
func (s *DraftService) Export(ctx context.Context, id string) (string, []models.QuestionData, error) {
	d, err := s.lookup(ctx, id)
	if err != nil {
		return "", nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return "", nil, ErrDraftNotFound
	}

	entries := d.form.Entries()
	questions := make([]models.QuestionData, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, models.QuestionData{
			Question:      e.Text,
			Options:       e.Options,
			CorrectAnswer: e.CorrectIndex,
		})
	}
	return d.form.Title, questions, nil
}

// remove closes d and drops it from memory and the store. The autosave is
// deleted before the map entry so a concurrent lookup cannot restore it. It
// reports false if d was already closed.
func (s *DraftService) remove(ctx context.Context, id string, d *draft) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	d.closed = true
	d.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		log.Printf("drafts: failed to delete autosave for %s: %v", id, err)
	}

	s.mu.Lock()
	if s.drafts[id] == d {
		delete(s.drafts, id)
		openDrafts.Dec()
	}
	s.mu.Unlock()
	return true
}

// changed must be called with the draft locked.
func (s *DraftService) changed(ctx context.Context, id string, form *composer.FormState) composer.View {
	view := form.Render()
	if err := s.store.Save(ctx, id, form.Snapshot()); err != nil {
		log.Printf("drafts: autosave for %s failed: %v", id, err)
	}
	s.notifier.Broadcast(id, ws.WSMessage{Type: ws.MessageState, Data: view})
	return view
}

func (s *DraftService) toast(id string, t models.Toast) {
	s.notifier.Broadcast(id, ws.WSMessage{Type: ws.MessageToast, Data: t})
}

func formatName(filename string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(filename), "."))
}
