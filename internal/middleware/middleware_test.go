package middleware

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/any-hub/any-store/internal/modules"
	"github.com/any-hub/any-store/internal/store"
)

const (
	doStuff     = "@@template/DO_STUFF"
	doMoreStuff = "@@template/DO_MORE_STUFF"
)

func newStore(t *testing.T) *modules.Store {
	t.Helper()
	s, err := modules.New(func(state store.State, action store.Action) store.State {
		if state == nil {
			return store.State{}
		}
		return state
	}, nil)
	require.NoError(t, err)
	return s
}

// templateModule 记录待办事项，thunk 动作可以再分发普通动作。
func templateModule(id string, mws ...modules.Middleware) modules.Descriptor {
	return modules.Descriptor{
		ModuleID: id,
		Reducer: func(state any, action store.Action) any {
			stuff, _ := state.([]string)
			plain, ok := action.(store.Plain)
			if !ok {
				return stuff
			}
			switch plain.Type {
			case doStuff, doMoreStuff:
				item, _ := plain.Payload["item"].(string)
				return append(append([]string(nil), stuff...), item)
			}
			return stuff
		},
		InitialState: []string{},
		Middleware:   mws,
	}
}

func getStuff() ThunkFunc {
	return func(dispatch store.Dispatch, _ func() store.State) (store.State, error) {
		return dispatch(store.Plain{Type: doMoreStuff, Payload: map[string]any{"item": "Add more middleware."}})
	}
}

func TestThunkDispatchesFunctions(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddModule(modules.Module(templateModule("my-module-id-2", Thunk())), nil, nil))

	state, err := s.Dispatch(getStuff())
	require.NoError(t, err)
	assert.Equal(t, []string{"Add more middleware."}, state["my-module-id-2"])
	assert.Equal(t, []string{"Add more middleware."}, s.GetState()["my-module-id-2"])
}

func TestThunkAcceptsPlainFunctions(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddModule(modules.Module(templateModule("todo", Thunk())), nil, nil))

	var seen store.State
	_, err := s.Dispatch(func(dispatch store.Dispatch, getState func() store.State) (store.State, error) {
		seen = getState()
		return dispatch(store.Plain{Type: doStuff, Payload: map[string]any{"item": "write tests"}})
	})
	require.NoError(t, err)
	assert.Contains(t, seen, "todo")
	assert.Equal(t, []string{"write tests"}, s.GetState()["todo"])
}

func TestFunctionsRejectedWithoutThunk(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddModule(modules.Module(templateModule("todo")), nil, nil))

	_, err := s.Dispatch(getStuff())
	assert.ErrorIs(t, err, store.ErrInvalidAction)
}

func TestThunkRemovedWithModule(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddModule(modules.Module(templateModule("todo", Thunk())), nil, nil))
	require.NoError(t, s.RemoveModule(modules.ID("todo")))

	_, err := s.Dispatch(getStuff())
	assert.ErrorIs(t, err, store.ErrInvalidAction)
}

func TestRecoverConvertsReducerPanics(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	s := newStore(t)
	require.NoError(t, s.AddModule(modules.Module(templateModule("guard", Recover(logger))), nil, nil))
	require.NoError(t, s.AddModule(modules.ID("fragile"), func(state any, action store.Action) any {
		if store.IsType(action, "EXPLODE") {
			panic("boom")
		}
		return state
	}, nil))

	_, err := s.Dispatch(store.Plain{Type: "EXPLODE"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "EXPLODE")

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, logrus.ErrorLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].Data["panic"])

	_, err = s.Dispatch(store.Plain{Type: "CALM"})
	assert.NoError(t, err, "store must keep working after a recovered panic")
}

func TestRecoverPassesThroughErrors(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddModule(modules.Module(templateModule("guard", Recover(nil))), nil, nil))

	_, err := s.Dispatch(store.Plain{})
	assert.ErrorIs(t, err, store.ErrInvalidAction)
	assert.False(t, errors.Is(err, ErrPanic))
}

func TestLoggerRecordsDispatches(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := newStore(t)
	logged := Logger(logger, logrus.Fields{"module_id": "audit"})
	require.NoError(t, s.AddModule(modules.ID("audit"), func(state any, _ store.Action) any { return state }, logged))

	_, err := s.Dispatch(store.Plain{Type: doStuff})
	require.NoError(t, err)
	_, err = s.Dispatch(store.Plain{})
	require.Error(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, modules.ActionModuleAdded, entries[0].Data["action_type"])
	assert.Equal(t, doStuff, entries[1].Data["action_type"])
	assert.Equal(t, "audit", entries[1].Data["module_id"])
	assert.Equal(t, logrus.DebugLevel, entries[1].Level)
	assert.Equal(t, logrus.WarnLevel, entries[2].Level)
}
