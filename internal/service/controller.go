package service

import (
	"context"
	"sync"

	"roster/internal/logging"
	"roster/internal/model"
)

// Mode is the form's commit mode.
type Mode string

const (
	ModeAdd     Mode = "add"
	ModeEditing Mode = "editing"
)

// ParseMode maps a submitted mode value back to a Mode; anything unknown
// is treated as ModeAdd.
func ParseMode(s string) Mode {
	if Mode(s) == ModeEditing {
		return ModeEditing
	}
	return ModeAdd
}

// State is the transient form state handed to and returned from every
// controller action. TargetID is set only in ModeEditing.
type State struct {
	Mode     Mode
	TargetID string
	Form     Form
}

// AddState is the initial state: add mode with an empty form.
func AddState() State {
	return State{Mode: ModeAdd}
}

func EditingState(id string, form Form) State {
	return State{Mode: ModeEditing, TargetID: id, Form: form}
}

func (s State) IsEditing() bool {
	return s.Mode == ModeEditing && s.TargetID != ""
}

// SubmitLabel is the caption of the form's submit control.
func (s State) SubmitLabel() string {
	if s.IsEditing() {
		return "Update Student"
	}
	return "Add Student"
}

// Controller decides between insert and update and enforces the
// validation and uniqueness rules before anything reaches the store.
type Controller struct {
	store *RecordStore

	// mu makes each action run to completion before the next starts.
	mu sync.Mutex
}

func NewController(store *RecordStore) *Controller {
	return &Controller{store: store}
}

// Records returns the current roster for rendering.
func (c *Controller) Records(ctx context.Context) ([]model.StudentRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.LoadAll(ctx)
}

// Find returns the stored record with the given ID.
func (c *Controller) Find(ctx context.Context, id string) (model.StudentRecord, error) {
	records, err := c.Records(ctx)
	if err != nil {
		return model.StudentRecord{}, err
	}
	rec, ok := FindByID(records, id)
	if !ok {
		return model.StudentRecord{}, &NotFoundError{StudentID: id}
	}
	return rec, nil
}

// Submit commits state.Form. On success the returned state is a cleared
// add state. A validation failure returns state unchanged; a vanished edit
// target returns an add state that keeps the typed form.
func (c *Controller) Submit(ctx context.Context, state State) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger := logging.WithFields(ctx, "mode", string(state.Mode), "target_id", state.TargetID)

	form := state.Form.Normalize()
	if err := Validate(form); err != nil {
		logger.Debug("form rejected", "reason", ReasonOf(err))
		return state, err
	}

	records, err := c.store.LoadAll(ctx)
	if err != nil {
		return state, err
	}

	var next []model.StudentRecord
	if state.IsEditing() {
		if _, ok := FindByID(records, state.TargetID); !ok {
			logger.Info("edit target no longer stored")
			return State{Mode: ModeAdd, Form: state.Form}, &NotFoundError{StudentID: state.TargetID}
		}
		if err := CheckUnique(records, form.StudentID, state.TargetID); err != nil {
			logger.Debug("form rejected", "reason", ReasonOf(err))
			return state, err
		}
		next, err = UpdateByID(records, state.TargetID, form.Record())
		if err != nil {
			return AddState(), err
		}
	} else {
		if err := CheckUnique(records, form.StudentID, ""); err != nil {
			logger.Debug("form rejected", "reason", ReasonOf(err))
			return state, err
		}
		next = Insert(records, form.Record())
	}

	if err := c.store.SaveAll(ctx, next); err != nil {
		logger.Error("saving roster failed", "error", err)
		return state, err
	}

	if state.IsEditing() {
		logger.Info("student updated", "student_id", form.StudentID)
	} else {
		logger.Info("student added", "student_id", form.StudentID)
	}
	return AddState(), nil
}

// Edit switches to editing the record with the given ID and fills the form
// from it.
func (c *Controller) Edit(ctx context.Context, state State, id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.LoadAll(ctx)
	if err != nil {
		return state, err
	}
	rec, ok := FindByID(records, id)
	if !ok {
		return AddState(), &NotFoundError{StudentID: id}
	}
	return EditingState(id, FormFromRecord(rec)), nil
}

// Delete removes the record with the given ID. Deleting the record under
// edit also leaves edit mode; any other delete returns state untouched.
func (c *Controller) Delete(ctx context.Context, state State, id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.LoadAll(ctx)
	if err != nil {
		return state, err
	}

	next, removed := DeleteByID(records, id)
	if removed {
		if err := c.store.SaveAll(ctx, next); err != nil {
			logging.FromContext(ctx).Error("saving roster failed", "error", err)
			return state, err
		}
		logging.FromContext(ctx).Info("student deleted", "student_id", id)
	}

	if state.IsEditing() && state.TargetID == id {
		return AddState(), nil
	}
	return state, nil
}

// Cancel leaves edit mode and clears the form.
func (c *Controller) Cancel(State) State {
	return AddState()
}

// mutate runs fn against the loaded roster under the action lock and saves
// the result when fn reports a change.
func (c *Controller) mutate(ctx context.Context, fn func([]model.StudentRecord) ([]model.StudentRecord, bool, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	next, changed, err := fn(records)
	if err != nil || !changed {
		return err
	}
	return c.store.SaveAll(ctx, next)
}
