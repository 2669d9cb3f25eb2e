package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/setclock/internal/cli"
	"github.com/claude/setclock/internal/models"
)

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "Manage workout days",
	RunE:  runDaysList,
}

var daysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workout days",
	RunE:  runDaysList,
}

var daysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a workout day",
	Example: `  setclock-cli days create --name "Leg Day" --exercise "Squat:sets:3" --exercise "Plank:time:90s"
  setclock-cli days create --name Core --exercise "Hollow Hold:time:2m"`,
	RunE: runDaysCreate,
}

var daysEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Rename a workout day or change its exercises",
	Example: `  setclock-cli days edit "Leg Day" --name Legs
  setclock-cli days edit Legs --add-exercise "Calf Raise:sets:4" --remove-exercise Lunge`,
	Args: cobra.ExactArgs(1),
	RunE: runDaysEdit,
}

var daysDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a workout day",
	Args:  cobra.ExactArgs(1),
	RunE:  runDaysDelete,
}

var (
	dayName      string
	dayExercises []string
	dayAdd       []string
	dayRemove    []string
)

func init() {
	daysCreateCmd.Flags().StringVar(&dayName, "name", "", "Day name")
	daysCreateCmd.Flags().StringArrayVarP(&dayExercises, "exercise", "e", nil, `Exercise as "Name:sets:N" or "Name:time:DURATION" (repeatable)`)
	_ = daysCreateCmd.MarkFlagRequired("name")

	daysEditCmd.Flags().StringVar(&dayName, "name", "", "New day name")
	daysEditCmd.Flags().StringArrayVar(&dayAdd, "add-exercise", nil, `Append an exercise as "Name:sets:N" or "Name:time:DURATION" (repeatable)`)
	daysEditCmd.Flags().StringArrayVar(&dayRemove, "remove-exercise", nil, "Remove the exercise with this name (repeatable)")

	daysCmd.AddCommand(daysListCmd, daysCreateCmd, daysEditCmd, daysDeleteCmd)
	rootCmd.AddCommand(daysCmd)
}

func runDaysList(cmd *cobra.Command, _ []string) error {
	days, err := newClient().ListWorkoutDays(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Println("\n  No workout days yet.")
		return nil
	}
	fmt.Println()
	fmt.Print(cli.RenderDays(days))
	return nil
}

func runDaysCreate(cmd *cobra.Command, _ []string) error {
	day := models.WorkoutDay{Name: strings.TrimSpace(dayName)}
	for _, raw := range dayExercises {
		ex, err := parseExercise(raw)
		if err != nil {
			return err
		}
		day.Exercises = append(day.Exercises, ex)
	}
	if err := day.Validate(); err != nil {
		return err
	}

	id, err := newClient().CreateWorkoutDay(commandContext(cmd), day)
	if err != nil {
		return err
	}
	fmt.Printf("  Created %s (%s)\n", day.Name, id)
	return nil
}

func runDaysEdit(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	client := newClient()

	days, err := client.ListWorkoutDays(ctx)
	if err != nil {
		return err
	}
	id, day, ok := findDay(days, args[0])
	if !ok {
		return fmt.Errorf("no workout day %q", args[0])
	}

	var add []models.ExerciseDefinition
	for _, raw := range dayAdd {
		ex, err := parseExercise(raw)
		if err != nil {
			return err
		}
		add = append(add, ex)
	}

	edited, err := editDay(day, strings.TrimSpace(dayName), add, dayRemove)
	if err != nil {
		return err
	}

	if len(dayRemove) > 0 {
		yes, err := confirm(
			fmt.Sprintf("Remove %s from %q?", strings.Join(dayRemove, ", "), day.Name),
			"Logged workouts keep their sets.")
		if err != nil {
			return err
		}
		if !yes {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	if err := client.UpdateWorkoutDay(ctx, id, edited); err != nil {
		return err
	}
	fmt.Printf("  Updated %s (%d exercises)\n", edited.Name, len(edited.Exercises))
	return nil
}

// editDay applies a rename, removals (by case-insensitive name) and appended
// exercises, in that order. The result must still be a valid day.
func editDay(day models.WorkoutDay, name string, add []models.ExerciseDefinition, remove []string) (models.WorkoutDay, error) {
	if name == "" && len(add) == 0 && len(remove) == 0 {
		return day, fmt.Errorf("nothing to change: pass --name, --add-exercise or --remove-exercise")
	}

	out := models.WorkoutDay{ID: day.ID, Name: day.Name}
	if name != "" {
		out.Name = name
	}

	drop := make(map[string]bool, len(remove))
	for _, r := range remove {
		drop[strings.ToLower(strings.TrimSpace(r))] = false
	}
	for _, ex := range day.Exercises {
		k := strings.ToLower(ex.Name)
		if _, ok := drop[k]; ok {
			drop[k] = true
			continue
		}
		out.Exercises = append(out.Exercises, ex)
	}
	for _, r := range remove {
		if !drop[strings.ToLower(strings.TrimSpace(r))] {
			return day, fmt.Errorf("%q has no exercise %q", day.Name, r)
		}
	}

	out.Exercises = append(out.Exercises, add...)
	if err := out.Validate(); err != nil {
		return day, err
	}
	return out, nil
}

func runDaysDelete(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	client := newClient()

	days, err := client.ListWorkoutDays(ctx)
	if err != nil {
		return err
	}
	id, day, ok := findDay(days, args[0])
	if !ok {
		return fmt.Errorf("no workout day %q", args[0])
	}

	yes, err := confirm(fmt.Sprintf("Delete %q?", day.Name), "Logged workouts for this day are kept.")
	if err != nil {
		return err
	}
	if !yes {
		fmt.Println("  Cancelled.")
		return nil
	}

	if err := client.DeleteWorkoutDay(ctx, id); err != nil {
		return err
	}
	fmt.Printf("  Deleted %s\n", day.Name)
	return nil
}

// findDay matches a day by ID, then by case-insensitive name.
func findDay(days map[string]models.WorkoutDay, key string) (string, models.WorkoutDay, bool) {
	if d, ok := days[key]; ok {
		return key, d, true
	}
	for id, d := range days {
		if strings.EqualFold(d.Name, key) {
			return id, d, true
		}
	}
	return "", models.WorkoutDay{}, false
}

// parseExercise reads "Name:sets:3" or "Name:time:90s". A bare number for a
// time target is minutes, as in the original day editor.
func parseExercise(raw string) (models.ExerciseDefinition, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return models.ExerciseDefinition{}, fmt.Errorf("exercise %q: want Name:sets:N or Name:time:DURATION", raw)
	}
	ex := models.ExerciseDefinition{
		Name: strings.TrimSpace(parts[0]),
		Kind: models.ExerciseKind(strings.ToLower(strings.TrimSpace(parts[1]))),
	}
	target := strings.TrimSpace(parts[2])

	switch ex.Kind {
	case models.KindSets:
		n, err := strconv.Atoi(target)
		if err != nil {
			return ex, fmt.Errorf("exercise %q: bad set count %q", raw, target)
		}
		ex.Count = n
	case models.KindTime:
		if mins, err := strconv.Atoi(target); err == nil {
			ex.Duration = mins * 60
			break
		}
		d, err := time.ParseDuration(target)
		if err != nil {
			return ex, fmt.Errorf("exercise %q: bad duration %q", raw, target)
		}
		ex.Duration = int(d.Seconds())
	}

	if err := ex.Validate(); err != nil {
		return ex, err
	}
	return ex, nil
}
