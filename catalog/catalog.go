// Package catalog declares the Hevy tools: their names, descriptions,
// argument schemas and the API request each one makes.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	hevymcp "github.com/jamoski3112/hevy-mcp"
)

// API is the outbound Hevy API used by the tool handlers. *hevy.Client
// implements it. Every method performs exactly one request; non-success
// responses must be returned as errors implementing hevymcp.StatusError.
type API interface {
	Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path string) (json.RawMessage, error)
}

// Resource tags attached to the tools.
const (
	TagWorkouts          = "workouts"
	TagRoutines          = "routines"
	TagRoutineFolders    = "routine_folders"
	TagExerciseTemplates = "exercise_templates"
	TagUser              = "user"
)

// Tools returns the full tool catalogue in discovery order.
func Tools(api API) ([]*hevymcp.Tool, error) {
	if api == nil {
		return nil, errors.New("catalog: api must not be nil")
	}
	b := &builder{api: api}

	b.list("get_workouts", "Get a paginated list of workouts", "/workouts", Pagination, TagWorkouts)
	b.get("get_workout_count", "Get the total number of workouts on the account", "/workouts/count", TagWorkouts)
	b.getByID("get_single_workout", "Get a single workout’s complete details by the workoutId", "/workouts", "workoutId", hevymcp.UUID(), TagWorkouts)
	b.deleteByID("delete_workout", "Delete a workout by its workoutId", "/workouts", "workoutId", hevymcp.UUID(), TagWorkouts)
	b.list("get_workout_events", "Retrieve a paged list of workout events (updates or deletes) since a given date", "/workouts/events", hevymcp.Merge(Pagination, DateFilter), TagWorkouts)

	b.list("get_routines", "Get a paginated list of routines", "/routines", Pagination, TagRoutines)
	b.getByID("get_single_routine", "Get a routine by its Id", "/routines", "routineId", hevymcp.UUID(), TagRoutines)
	b.deleteByID("delete_routine", "Delete a routine by its routineId", "/routines", "routineId", hevymcp.UUID(), TagRoutines)

	b.list("get_routine_folders", "Get a paginated list of routine folders", "/routine_folders", Pagination, TagRoutineFolders)
	b.add(createRoutineFolder(api))
	b.add(updateRoutineFolder(api))
	b.deleteByID("delete_routine_folder", "Delete a routine folder by its folderId", "/routine_folders", "folderId", FolderID, TagRoutineFolders)

	b.list("get_exercise_templates", "Get a paginated list of exercise templates", "/exercise_templates", Pagination, TagExerciseTemplates)
	b.getByID("get_single_exercise_template", "Get a single exercise template by id", "/exercise_templates", "exerciseTemplateId", hevymcp.String(), TagExerciseTemplates)
	b.deleteByID("delete_exercise_template", "Delete a custom exercise template by its id", "/exercise_templates", "exerciseTemplateId", hevymcp.String(), TagExerciseTemplates)
	b.add(exerciseHistory(api))

	b.create("create_workout", "Create a new workout", "/workouts", "workout", Workout, TagWorkouts)
	b.update("update_workout", "Update an existing workout", "/workouts", "workoutId", hevymcp.UUID(), "workout", Workout, TagWorkouts)
	b.create("create_routine", "Create a new routine", "/routines", "routine", NewRoutine, TagRoutines)
	b.update("update_routine", "Update an existing routine", "/routines", "routineId", hevymcp.UUID(), "routine", RoutineUpdate, TagRoutines)
	b.create("create_exercise_template", "Create a new custom exercise template", "/exercise_templates", "exercise", CustomExercise, TagExerciseTemplates)

	b.getByID("get_single_routine_folder", "Get a single routine folder by id", "/routine_folders", "folderId", FolderID, TagRoutineFolders)
	b.get("get_user_info", "Get user info", "/user/info", TagUser)

	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.tools, nil
}

// NewRegistry builds the registry of the full catalogue.
func NewRegistry(api API) (*hevymcp.Registry, error) {
	tools, err := Tools(api)
	if err != nil {
		return nil, err
	}
	return hevymcp.NewRegistry(tools...)
}

// builder collects tools and construction errors.
type builder struct {
	api   API
	tools []*hevymcp.Tool
	errs  []error
}

func (b *builder) add(t *hevymcp.Tool, err error) {
	if err != nil {
		b.errs = append(b.errs, err)
		return
	}
	b.tools = append(b.tools, t)
}

// noArgs is the argument schema of tools without parameters.
func noArgs() *hevymcp.Schema { return hevymcp.Object() }

func (b *builder) get(name, desc, path, tag string) {
	api := b.api
	b.add(hevymcp.NewRawTool(name, desc, noArgs(),
		func(ctx context.Context, _ map[string]any) (json.RawMessage, error) {
			return api.Get(ctx, path, nil)
		},
		hevymcp.WithReadOnly(), hevymcp.WithTags(tag)))
}

// pageArgs are the validated arguments of a listing tool.
type pageArgs struct {
	Page     float64 `json:"page"`
	PageSize float64 `json:"pageSize"`
	Since    *string `json:"since,omitempty"`
}

func (p pageArgs) query() url.Values {
	q := url.Values{}
	q.Set("page", formatNumber(p.Page))
	q.Set("pageSize", formatNumber(p.PageSize))
	if p.Since != nil {
		q.Set("since", *p.Since)
	}
	return q
}

func (b *builder) list(name, desc, path string, args *hevymcp.Schema, tag string) {
	api := b.api
	b.add(hevymcp.NewTool(name, desc, args,
		func(ctx context.Context, in pageArgs) (json.RawMessage, error) {
			return api.Get(ctx, path, in.query())
		},
		hevymcp.WithReadOnly(), hevymcp.WithTags(tag)))
}

func (b *builder) getByID(name, desc, prefix, idField string, id *hevymcp.Schema, tag string) {
	api := b.api
	args := hevymcp.Object(hevymcp.Prop(idField, id))
	b.add(hevymcp.NewRawTool(name, desc, args,
		func(ctx context.Context, in map[string]any) (json.RawMessage, error) {
			return api.Get(ctx, resourcePath(prefix, in[idField]), nil)
		},
		hevymcp.WithReadOnly(), hevymcp.WithTags(tag)))
}

func (b *builder) deleteByID(name, desc, prefix, idField string, id *hevymcp.Schema, tag string) {
	api := b.api
	args := hevymcp.Object(hevymcp.Prop(idField, id))
	b.add(hevymcp.NewRawTool(name, desc, args,
		func(ctx context.Context, in map[string]any) (json.RawMessage, error) {
			return api.Delete(ctx, resourcePath(prefix, in[idField]))
		},
		hevymcp.WithDangerous(), hevymcp.WithTags(tag)))
}

// create posts the validated body wrapped in its resource key.
func (b *builder) create(name, desc, path, key string, body *hevymcp.Schema, tag string) {
	api := b.api
	args := hevymcp.Object(hevymcp.Prop(key, body))
	b.add(hevymcp.NewRawTool(name, desc, args,
		func(ctx context.Context, in map[string]any) (json.RawMessage, error) {
			return api.Post(ctx, path, map[string]any{key: in[key]})
		},
		hevymcp.WithTags(tag)))
}

// update puts the validated body, wrapped in its resource key, to prefix/{id}.
func (b *builder) update(name, desc, prefix, idField string, id *hevymcp.Schema, key string, body *hevymcp.Schema, tag string) {
	api := b.api
	args := hevymcp.Object(hevymcp.Prop(idField, id), hevymcp.Prop(key, body))
	b.add(hevymcp.NewRawTool(name, desc, args,
		func(ctx context.Context, in map[string]any) (json.RawMessage, error) {
			return api.Put(ctx, resourcePath(prefix, in[idField]), map[string]any{key: in[key]})
		},
		hevymcp.WithTags(tag)))
}

type folderTitle struct {
	Title string `json:"title"`
}

type folderBody struct {
	RoutineFolder folderTitle `json:"routine_folder"`
}

func createRoutineFolder(api API) (*hevymcp.Tool, error) {
	args := hevymcp.Object(hevymcp.Prop("title", hevymcp.String()))
	return hevymcp.NewTool("create_routine_folder", "Create a new routine folder", args,
		func(ctx context.Context, in folderTitle) (json.RawMessage, error) {
			return api.Post(ctx, "/routine_folders", folderBody{RoutineFolder: in})
		},
		hevymcp.WithTags(TagRoutineFolders))
}

type folderUpdate struct {
	FolderID any    `json:"folderId"`
	Title    string `json:"title"`
}

func updateRoutineFolder(api API) (*hevymcp.Tool, error) {
	args := hevymcp.Object(
		hevymcp.Prop("folderId", FolderID),
		hevymcp.Prop("title", hevymcp.String()),
	)
	return hevymcp.NewTool("update_routine_folder", "Update an existing routine folder", args,
		func(ctx context.Context, in folderUpdate) (json.RawMessage, error) {
			body := folderBody{RoutineFolder: folderTitle{Title: in.Title}}
			return api.Put(ctx, resourcePath("/routine_folders", in.FolderID), body)
		},
		hevymcp.WithTags(TagRoutineFolders))
}

type historyArgs struct {
	ExerciseTemplateID string  `json:"exerciseTemplateId"`
	StartDate          *string `json:"start_date,omitempty"`
	EndDate            *string `json:"end_date,omitempty"`
}

func exerciseHistory(api API) (*hevymcp.Tool, error) {
	args := hevymcp.Object(
		hevymcp.Prop("exerciseTemplateId", hevymcp.String()),
		hevymcp.Prop("start_date", hevymcp.Optional(hevymcp.String())),
		hevymcp.Prop("end_date", hevymcp.Optional(hevymcp.String())),
	)
	return hevymcp.NewTool("get_exercise_history", "Get exercise history for a specific exercise template", args,
		func(ctx context.Context, in historyArgs) (json.RawMessage, error) {
			q := url.Values{}
			if in.StartDate != nil {
				q.Set("start_date", *in.StartDate)
			}
			if in.EndDate != nil {
				q.Set("end_date", *in.EndDate)
			}
			return api.Get(ctx, resourcePath("/exercise_history", in.ExerciseTemplateID), q)
		},
		hevymcp.WithReadOnly(), hevymcp.WithTags(TagExerciseTemplates))
}

// resourcePath appends id to prefix as one escaped path segment.
func resourcePath(prefix string, id any) string {
	var seg string
	switch v := id.(type) {
	case string:
		seg = v
	case float64:
		seg = formatNumber(v)
	default:
		seg = fmt.Sprint(v)
	}
	return prefix + "/" + url.PathEscape(seg)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
