package catalog

import (
	hevymcp "github.com/jamoski3112/hevy-mcp"
)

// Enumerations accepted by the Hevy API.
var (
	SetType = hevymcp.Enum("warmup", "normal", "failure", "dropset")

	CustomExerciseType = hevymcp.Enum(
		"weight_reps",
		"reps_only",
		"bodyweight_reps",
		"bodyweight_assisted_reps",
		"duration",
		"weight_duration",
		"distance_duration",
		"short_distance_weight",
	)

	EquipmentCategory = hevymcp.Enum(
		"none",
		"barbell",
		"dumbbell",
		"kettlebell",
		"machine",
		"plate",
		"resistance_band",
		"suspension",
		"other",
	)

	MuscleGroup = hevymcp.Enum(
		"abdominals",
		"shoulders",
		"biceps",
		"triceps",
		"forearms",
		"quadriceps",
		"hamstrings",
		"calves",
		"glutes",
		"abductors",
		"adductors",
		"lats",
		"upper_back",
		"traps",
		"lower_back",
		"chest",
		"cardio",
		"neck",
		"full_body",
		"other",
	)
)

// Default page settings of listing tools.
const (
	DefaultPage     = 1
	DefaultPageSize = 5
)

// Pagination is the argument shape of every listing tool.
var Pagination = hevymcp.Object(
	hevymcp.Prop("page", hevymcp.Default(hevymcp.Optional(hevymcp.Number()), float64(DefaultPage))),
	hevymcp.Prop("pageSize", hevymcp.Default(hevymcp.Optional(hevymcp.Number()), float64(DefaultPageSize))),
)

// DateFilter narrows an event feed to changes after a timestamp.
var DateFilter = hevymcp.Object(
	hevymcp.Prop("since", hevymcp.Optional(hevymcp.String())),
)

// maybe is a value that may be absent or null.
func maybe(s *hevymcp.Schema) *hevymcp.Schema {
	return hevymcp.Optional(hevymcp.Nullable(s))
}

// WorkoutSet is one logged set.
var WorkoutSet = hevymcp.Object(
	hevymcp.Prop("type", SetType),
	hevymcp.Prop("weight_kg", maybe(hevymcp.Number())),
	hevymcp.Prop("reps", maybe(hevymcp.Integer())),
	hevymcp.Prop("distance_meters", maybe(hevymcp.Integer())),
	hevymcp.Prop("duration_seconds", maybe(hevymcp.Integer())),
	hevymcp.Prop("custom_metric", maybe(hevymcp.Number())),
	hevymcp.Prop("rpe", maybe(hevymcp.Number())),
)

// WorkoutExercise is one exercise of a workout with its sets.
var WorkoutExercise = hevymcp.Object(
	hevymcp.Prop("exercise_template_id", hevymcp.String()),
	hevymcp.Prop("superset_id", maybe(hevymcp.Number())),
	hevymcp.Prop("notes", maybe(hevymcp.String())),
	hevymcp.Prop("sets", hevymcp.Array(WorkoutSet)),
)

// RepRange is the planned rep interval of a routine set.
var RepRange = hevymcp.Object(
	hevymcp.Prop("start", hevymcp.Number()),
	hevymcp.Prop("end", hevymcp.Number()),
)

// RoutineSet is one planned set of a routine.
var RoutineSet = hevymcp.Object(
	hevymcp.Prop("type", SetType),
	hevymcp.Prop("weight_kg", maybe(hevymcp.Number())),
	hevymcp.Prop("reps", maybe(hevymcp.Integer())),
	hevymcp.Prop("distance_meters", maybe(hevymcp.Integer())),
	hevymcp.Prop("duration_seconds", maybe(hevymcp.Integer())),
	hevymcp.Prop("custom_metric", maybe(hevymcp.Number())),
	hevymcp.Prop("rep_range", maybe(RepRange)),
)

// RoutineExercise is one exercise of a routine with its planned sets.
var RoutineExercise = hevymcp.Object(
	hevymcp.Prop("exercise_template_id", hevymcp.String()),
	hevymcp.Prop("superset_id", maybe(hevymcp.Number())),
	hevymcp.Prop("rest_seconds", maybe(hevymcp.Integer())),
	hevymcp.Prop("notes", maybe(hevymcp.String())),
	hevymcp.Prop("sets", hevymcp.Array(RoutineSet)),
)

// Workout is the body of create_workout and update_workout.
var Workout = hevymcp.Object(
	hevymcp.Prop("title", hevymcp.String()),
	hevymcp.Prop("description", maybe(hevymcp.String())),
	hevymcp.Prop("start_time", hevymcp.String()),
	hevymcp.Prop("end_time", hevymcp.String()),
	hevymcp.Prop("is_private", hevymcp.Optional(hevymcp.Boolean())),
	hevymcp.Prop("exercises", hevymcp.Array(WorkoutExercise)),
)

// NewRoutine is the body of create_routine.
var NewRoutine = hevymcp.Object(
	hevymcp.Prop("title", hevymcp.String()),
	hevymcp.Prop("folder_id", maybe(hevymcp.Number())),
	hevymcp.Prop("notes", hevymcp.Optional(hevymcp.String())),
	hevymcp.Prop("exercises", hevymcp.Array(RoutineExercise)),
)

// RoutineUpdate is the body of update_routine. Routines cannot change folder.
var RoutineUpdate = hevymcp.Object(
	hevymcp.Prop("title", hevymcp.String()),
	hevymcp.Prop("notes", maybe(hevymcp.String())),
	hevymcp.Prop("exercises", hevymcp.Array(RoutineExercise)),
)

// CustomExercise is the body of create_exercise_template.
var CustomExercise = hevymcp.Object(
	hevymcp.Prop("title", hevymcp.String()),
	hevymcp.Prop("exercise_type", CustomExerciseType),
	hevymcp.Prop("equipment_category", EquipmentCategory),
	hevymcp.Prop("muscle_group", MuscleGroup),
	hevymcp.Prop("other_muscles", hevymcp.Optional(hevymcp.Array(MuscleGroup))),
)

// FolderID accepts folder ids as strings or numbers.
var FolderID = hevymcp.Union(hevymcp.String(), hevymcp.Number())
