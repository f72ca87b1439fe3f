// Package mutation wraps create, update and delete. Validation happens
// locally before any call; a successful mutation refreshes the list and bumps
// the shared refresh epoch; a failure leaves form and selection untouched.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"
	"github.com/google/uuid"
)

// Messages shown to the user.
const (
	MsgCreated         = "Job application added successfully!"
	MsgCreateFailed    = "Failed to add job application."
	MsgUpdated         = "Job application updated successfully!"
	MsgUpdateFailed    = "Failed to update job application."
	MsgDeleted         = "Job application deleted successfully!"
	MsgDeleteFailed    = "Failed to delete job application."
	MsgDeleteCancelled = "Deletion cancelled."
)

// ErrNotEditing is returned by Update outside edit mode.
var ErrNotEditing = errors.New("no job application is being edited")

// Service is the write side of the remote job service.
type Service interface {
	Create(ctx context.Context, job domain.JobApplication) (*domain.JobApplication, error)
	Update(ctx context.Context, job domain.JobApplication) (*domain.JobApplication, error)
	Delete(ctx context.Context, userID, id string) error
}

type UserSource interface {
	UserID() string
}

type Refresher interface {
	Refresh(ctx context.Context)
}

type EpochBumper interface {
	Bump() uint64
}

// Notifier shows non-blocking messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

type Coordinator struct {
	svc     Service
	users   UserSource
	list    Refresher
	epoch   EpochBumper
	notify  Notifier
	log     logging.Logger
	newID   func() string
	confirm ConfirmationFlow

	mu      sync.Mutex
	form    Form
	editing *domain.JobApplication
}

func NewCoordinator(svc Service, users UserSource, list Refresher, epoch EpochBumper, notify Notifier, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.Discard()
	}
	return &Coordinator{
		svc:    svc,
		users:  users,
		list:   list,
		epoch:  epoch,
		notify: notify,
		log:    log,
		newID:  uuid.NewString,
		form:   DefaultForm(),
	}
}

// Form returns the add form as last submitted or reset.
func (c *Coordinator) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Create validates f and adds a new application under a fresh id.
func (c *Coordinator) Create(ctx context.Context, f Form) (*domain.JobApplication, error) {
	c.mu.Lock()
	c.form = f
	c.mu.Unlock()

	userID := c.users.UserID()
	if userID == "" {
		c.notify.Error(common.ErrNotLoggedIn.Error())
		return nil, common.ErrNotLoggedIn
	}

	job, err := f.Build(c.newID(), userID)
	if err != nil {
		c.notify.Error(err.Error())
		return nil, err
	}

	created, err := c.svc.Create(ctx, job)
	if err != nil {
		c.log.Warn(ctx, "create failed", "id", job.ID, "error", err)
		c.notify.Error(MsgCreateFailed)
		return nil, fmt.Errorf("%w: %w", common.ErrMutationFailed, err)
	}

	c.mu.Lock()
	c.form = DefaultForm()
	c.mu.Unlock()

	c.notify.Success(MsgCreated)
	c.afterMutation(ctx)
	return created, nil
}

// BeginEdit enters edit mode for job and returns the prefilled form.
func (c *Coordinator) BeginEdit(job domain.JobApplication) Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	j := job
	c.editing = &j
	return FormFrom(job)
}

// Editing returns the application being edited, if any.
func (c *Coordinator) Editing() (domain.JobApplication, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		return domain.JobApplication{}, false
	}
	return *c.editing, true
}

func (c *Coordinator) CancelEdit() {
	c.mu.Lock()
	c.editing = nil
	c.mu.Unlock()
}

// Update replaces the application being edited with the contents of f.
// Edit mode ends only on success.
func (c *Coordinator) Update(ctx context.Context, f Form) (*domain.JobApplication, error) {
	orig, ok := c.Editing()
	if !ok || orig.ID == "" {
		c.notify.Error(ErrNotEditing.Error())
		return nil, ErrNotEditing
	}

	job, err := f.Build(orig.ID, orig.UserID)
	if err != nil {
		c.notify.Error(err.Error())
		return nil, err
	}

	updated, err := c.svc.Update(ctx, job)
	if err != nil {
		c.log.Warn(ctx, "update failed", "id", job.ID, "error", err)
		c.notify.Error(MsgUpdateFailed)
		return nil, fmt.Errorf("%w: %w", common.ErrMutationFailed, err)
	}

	c.CancelEdit()
	c.notify.Success(MsgUpdated)
	c.afterMutation(ctx)
	return updated, nil
}

// RequestDelete asks for confirmation before deleting id. If another delete
// was pending it is dropped and its id returned.
func (c *Coordinator) RequestDelete(id string) (replaced string) {
	return c.confirm.Request(id)
}

func (c *Coordinator) PendingDelete() (string, bool) {
	return c.confirm.Pending()
}

// ConfirmDelete deletes the pending target.
func (c *Coordinator) ConfirmDelete(ctx context.Context) error {
	id, err := c.confirm.Confirm()
	if err != nil {
		return err
	}

	userID := c.users.UserID()
	if userID == "" {
		c.notify.Error(common.ErrNotLoggedIn.Error())
		return common.ErrNotLoggedIn
	}

	if err := c.svc.Delete(ctx, userID, id); err != nil {
		c.log.Warn(ctx, "delete failed", "id", id, "error", err)
		c.notify.Error(MsgDeleteFailed)
		return fmt.Errorf("%w: %w", common.ErrMutationFailed, err)
	}

	c.notify.Success(MsgDeleted)
	c.afterMutation(ctx)
	return nil
}

// CancelDelete drops the pending target without calling the service.
func (c *Coordinator) CancelDelete() error {
	if _, err := c.confirm.Cancel(); err != nil {
		return err
	}
	c.notify.Info(MsgDeleteCancelled)
	return nil
}

// Reset forgets the form, edit mode and any pending delete.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.form = DefaultForm()
	c.editing = nil
	c.mu.Unlock()
	c.confirm.Reset()
}

func (c *Coordinator) afterMutation(ctx context.Context) {
	c.list.Refresh(ctx)
	e := c.epoch.Bump()
	c.log.Debug(ctx, "refresh epoch bumped", "epoch", e)
}
