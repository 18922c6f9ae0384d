// Package hevymcp is the schema-driven tool engine behind the Hevy MCP server:
// it declares tool argument shapes, advertises them as JSON Schema, validates
// incoming arguments and routes validated calls to their handlers.
//
// # Overview
//
// Callers send tool calls as a name plus an untyped argument mapping. This
// package turns that mapping into a concrete handler invocation:
// look up → validate (against the same Schema advertised to the caller) →
// execute → wrap the payload, or return a displayable error.
//
// Pipeline: Schema (Object, Array, String, ...) + typed handler → NewTool →
// Registry (immutable, ordered) → Dispatcher.Dispatch → Response.
//
// # Key concepts
//
//   - Single source of truth: one Schema value drives both the exported
//     discovery schema (Export) and the validation of incoming arguments (Validate).
//   - Full aggregation: a validation failure lists every field problem at once.
//   - Error contract: ClientError results are displayable and the server keeps
//     serving; SystemError marks transport or internal faults for that call.
//   - No retries: a handler performs exactly one outbound call per invocation.
//
// # Example
//
//	args := hevymcp.Object(hevymcp.Prop("workoutId", hevymcp.UUID()))
//	tool, err := hevymcp.NewTool("get_single_workout", "Get a workout", args,
//	    func(ctx context.Context, in struct{ WorkoutID string `json:"workoutId"` }) (json.RawMessage, error) {
//	        return api.Get(ctx, "/workouts/"+in.WorkoutID, nil)
//	    })
//	if err != nil { ... }
//	reg, err := hevymcp.NewRegistry(tool)
//	d := hevymcp.NewDispatcher(reg)
//	resp, err := d.Dispatch(ctx, hevymcp.Call{Name: "get_single_workout", Arguments: map[string]any{"workoutId": id}})
package hevymcp
