package tui

import (
	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase"
)

// Msg is the sealed interface for all board messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTasksLoaded is sent when the task list has been (re)loaded.
type MsgTasksLoaded struct {
	Tasks   []usecase.TaskView
	Refresh bool // The list came from an authoritative fetch
}

func (MsgTasksLoaded) sealed() {}

// MsgUserLoaded is sent when the user snapshot has been fetched.
type MsgUserLoaded struct {
	User domain.User
}

func (MsgUserLoaded) sealed() {}

// MsgTaskCompleted is sent when a completion request succeeded.
type MsgTaskCompleted struct {
	Output *usecase.CompleteTaskOutput
	TaskID string
}

func (MsgTaskCompleted) sealed() {}

// MsgTaskUncompleted is sent when an un-completion request succeeded.
type MsgTaskUncompleted struct {
	Output *usecase.UncompleteTaskOutput
	TaskID string
}

func (MsgTaskUncompleted) sealed() {}

// MsgActionFailed is sent when a request for a task failed.
type MsgActionFailed struct {
	Err    error
	TaskID string
}

func (MsgActionFailed) sealed() {}

// MsgTick is sent every poll interval to trigger an authoritative resync.
type MsgTick struct{}

func (MsgTick) sealed() {}

// MsgError is sent when an error occurs outside a task action.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
