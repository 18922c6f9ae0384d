package hevymcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAPI scripts the outcome of a single outbound call and counts invocations.
type fakeAPI struct {
	calls   atomic.Int32
	payload string
	err     error
	last    map[string]any
	mu      sync.Mutex
}

func (f *fakeAPI) handler(ctx context.Context, args map[string]any) (json.RawMessage, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = args
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return raw(f.payload), nil
}

func newTestDispatcher(t *testing.T, api *fakeAPI, opts ...Option) *Dispatcher {
	t.Helper()
	getOne, err := NewRawTool("get_single_workout", "Get a workout", Object(Prop("workoutId", UUID())), api.handler, WithReadOnly())
	require.NoError(t, err)
	list, err := NewRawTool("get_workouts", "List workouts", Object(
		Prop("page", Default(Optional(Number()), 1.0)),
		Prop("pageSize", Default(Optional(Number()), 5.0)),
	), api.handler, WithReadOnly())
	require.NoError(t, err)
	reg, err := NewRegistry(getOne, list)
	require.NoError(t, err)
	return NewDispatcher(reg, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func TestDispatch_Success(t *testing.T) {
	api := &fakeAPI{payload: `{"id":"` + testUUID + `","title":"Leg day"}`}
	d := newTestDispatcher(t, api)

	resp, err := d.Dispatch(context.Background(), Call{Name: "get_single_workout", Arguments: map[string]any{"workoutId": testUUID}})
	require.NoError(t, err)
	require.False(t, resp.IsError())
	assert.JSONEq(t, api.payload, string(resp.Payload))
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestDispatch_DefaultsReachHandler(t *testing.T) {
	api := &fakeAPI{payload: `[]`}
	d := newTestDispatcher(t, api)

	resp, err := d.Dispatch(context.Background(), Call{Name: "get_workouts"})
	require.NoError(t, err)
	require.False(t, resp.IsError())
	assert.Equal(t, map[string]any{"page": 1.0, "pageSize": 5.0}, api.last)
}

func TestDispatch_InvalidArgumentsSkipHandler(t *testing.T) {
	api := &fakeAPI{payload: `{}`}
	d := newTestDispatcher(t, api)

	resp, err := d.Dispatch(context.Background(), Call{Name: "get_single_workout", Arguments: map[string]any{"workoutId": "not-a-uuid"}})
	require.NoError(t, err)
	require.True(t, resp.IsError())
	assert.ErrorIs(t, resp.Err, ErrInvalidArguments)
	assert.Contains(t, resp.Text(), "workoutId")
	assert.Contains(t, resp.Text(), "invalid uuid")
	assert.Equal(t, int32(0), api.calls.Load())
}

func TestDispatch_UnknownTool(t *testing.T) {
	api := &fakeAPI{}
	d := newTestDispatcher(t, api)

	resp, err := d.Dispatch(context.Background(), Call{Name: "nonexistent_tool"})
	require.NoError(t, err)
	require.True(t, resp.IsError())
	assert.ErrorIs(t, resp.Err, ErrUnknownTool)
	assert.Equal(t, "Unknown tool: nonexistent_tool", resp.Text())
	assert.Equal(t, int32(0), api.calls.Load())
}

func TestDispatch_RemoteRejected(t *testing.T) {
	api := &fakeAPI{err: &statusErr{code: 404, body: `{"error":"Workout not found"}`}}
	d := newTestDispatcher(t, api)

	resp, err := d.Dispatch(context.Background(), Call{Name: "get_single_workout", Arguments: map[string]any{"workoutId": testUUID}})
	require.NoError(t, err)
	require.True(t, resp.IsError())
	assert.ErrorIs(t, resp.Err, ErrRemoteRejected)
	assert.Contains(t, resp.Text(), "404")
	assert.Equal(t, `API Error: 404 - {"error":"Workout not found"}`, resp.Text())
}

func TestDispatch_TransportFailure(t *testing.T) {
	api := &fakeAPI{err: errors.New("dial tcp: connection refused")}
	d := newTestDispatcher(t, api)

	resp, err := d.Dispatch(context.Background(), Call{Name: "get_single_workout", Arguments: map[string]any{"workoutId": testUUID}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, resp.IsError())
	assert.Nil(t, resp.Payload)
	assert.Equal(t, int32(1), api.calls.Load(), "no retry")
}

func TestDispatch_EmptyPayloadIsNull(t *testing.T) {
	api := &fakeAPI{payload: ""}
	d := newTestDispatcher(t, api)

	resp, err := d.Dispatch(context.Background(), Call{Name: "get_workouts"})
	require.NoError(t, err)
	assert.Equal(t, "null", string(resp.Payload))
}

func TestDispatch_PanicRecovered(t *testing.T) {
	tool, err := NewRawTool("boom", "Panics", Object(), func(context.Context, map[string]any) (json.RawMessage, error) {
		panic("oops")
	})
	require.NoError(t, err)
	reg, err := NewRegistry(tool)
	require.NoError(t, err)
	d := NewDispatcher(reg, WithLogger(quietLogger()))

	_, err = d.Dispatch(context.Background(), Call{Name: "boom"})
	require.Error(t, err)
	assert.True(t, IsSystemError(err))
	assert.Contains(t, err.Error(), "panic: oops")
}

func TestDispatch_Timeout(t *testing.T) {
	tool, err := NewRawTool("slow", "Slow", Object(), func(ctx context.Context, _ map[string]any) (json.RawMessage, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)
	reg, err := NewRegistry(tool)
	require.NoError(t, err)
	d := NewDispatcher(reg, WithLogger(quietLogger()), WithDefaultTimeout(time.Hour))

	start := time.Now()
	_, err = d.Dispatch(context.Background(), Call{Name: "slow"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestDispatch_HandlerClientErrorPassesThrough(t *testing.T) {
	ce := &ClientError{Reason: "already gone", Err: ErrRemoteRejected}
	api := &fakeAPI{err: ce}
	d := newTestDispatcher(t, api)

	resp, err := d.Dispatch(context.Background(), Call{Name: "get_workouts"})
	require.NoError(t, err)
	assert.Same(t, ce, resp.Err)
}

func TestDispatch_Hooks(t *testing.T) {
	var (
		mu        sync.Mutex
		before    []string
		summaries []DispatchSummary
	)
	api := &fakeAPI{payload: `{}`}
	d := newTestDispatcher(t, api,
		WithOnBeforeDispatch(func(_ context.Context, c Call) {
			mu.Lock()
			defer mu.Unlock()
			before = append(before, c.Name)
		}),
		WithOnAfterDispatch(func(_ context.Context, _ Call, s DispatchSummary) {
			mu.Lock()
			defer mu.Unlock()
			summaries = append(summaries, s)
		}),
	)
	ctx := context.Background()
	_, _ = d.Dispatch(ctx, Call{Name: "get_workouts"})
	_, _ = d.Dispatch(ctx, Call{Name: "missing"})
	_, _ = d.Dispatch(ctx, Call{Name: "get_single_workout", Arguments: map[string]any{"workoutId": 1}})

	assert.Equal(t, []string{"get_workouts", "missing", "get_single_workout"}, before)
	require.Len(t, summaries, 3)
	assert.Equal(t, StageResponded, summaries[0].Stage)
	assert.NoError(t, summaries[0].Err)
	assert.Equal(t, StageReceived, summaries[1].Stage)
	assert.ErrorIs(t, summaries[1].Err, ErrUnknownTool)
	assert.Equal(t, StageLookedUp, summaries[2].Stage)
	assert.ErrorIs(t, summaries[2].Err, ErrInvalidArguments)
}

func TestDispatch_Concurrent(t *testing.T) {
	api := &fakeAPI{payload: `{"ok":true}`}
	d := newTestDispatcher(t, api)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := d.Dispatch(context.Background(), Call{Name: "get_workouts", Arguments: map[string]any{"page": 2}})
			assert.NoError(t, err)
			assert.False(t, resp.IsError())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(32), api.calls.Load())
}

func TestListTools_RegistrationOrder(t *testing.T) {
	d := newTestDispatcher(t, &fakeAPI{})
	tools := d.ListTools()
	require.Len(t, tools, 2)
	assert.Equal(t, "get_single_workout", tools[0].Name)
	assert.Equal(t, "get_workouts", tools[1].Name)
	assert.Equal(t, []string{"workoutId"}, tools[0].InputSchema.Required)
	assert.Nil(t, tools[1].InputSchema.Required)
	assert.True(t, tools[0].ReadOnly)
	assert.Same(t, d.Registry(), d.registry)
}

func TestDecodeArguments(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    map[string]any
		wantErr bool
	}{
		{"empty", "", map[string]any{}, false},
		{"null", "null", map[string]any{}, false},
		{"object", `{"page":2}`, map[string]any{"page": 2.0}, false},
		{"array", `[1]`, nil, true},
		{"garbage", `{`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeArguments(raw(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArguments)
				assert.True(t, IsClientError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
