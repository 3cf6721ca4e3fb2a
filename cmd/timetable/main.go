// Command timetable expands a weekly class template into a date-wise
// timetable JSON file. With -semester and -section it instead loads the
// template's classes into the database schedule used for room bookings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/anvaya/anvaya-go/internal/config"
	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/repository"
	"github.com/anvaya/anvaya-go/internal/timetable"
)

func main() {
	var (
		templateName = flag.String("template", "2ndyear", "built-in template: "+strings.Join(timetable.BuiltinNames(), ", "))
		templateFile = flag.String("file", "", "path to a JSON template; overrides -template")
		startFlag    = flag.String("start", "2025-02-01", "first date (YYYY-MM-DD)")
		endFlag      = flag.String("end", "2025-05-31", "last date (YYYY-MM-DD)")
		outPath      = flag.String("out", "full_datewise_timetable.json", "output file, or - for stdout")
		semester     = flag.Int("semester", 0, "import the template into the database for this semester")
		section      = flag.String("section", "", "section of the imported schedule")
	)
	flag.Parse()

	if *semester > 0 || *section != "" {
		if err := runImport(*templateName, *templateFile, *semester, *section); err != nil {
			slog.Error("timetable import failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*templateName, *templateFile, *startFlag, *endFlag, *outPath); err != nil {
		slog.Error("timetable generation failed", "error", err)
		os.Exit(1)
	}
}

func run(templateName, templateFile, startFlag, endFlag, outPath string) error {
	weekly, err := loadTemplate(templateName, templateFile)
	if err != nil {
		return err
	}

	start, err := time.Parse(timetable.InputLayout, startFlag)
	if err != nil {
		return fmt.Errorf("invalid -start %q: %w", startFlag, err)
	}
	end, err := time.Parse(timetable.InputLayout, endFlag)
	if err != nil {
		return fmt.Errorf("invalid -end %q: %w", endFlag, err)
	}

	tt, err := timetable.Expand(weekly, start, end, time.Sunday)
	if err != nil {
		return err
	}

	if outPath == "-" {
		return timetable.Write(os.Stdout, tt)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := timetable.Write(f, tt); err != nil {
		f.Close()
		return fmt.Errorf("write timetable: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	slog.Info("timetable written", "out", outPath, "days", len(tt))
	return nil
}

func runImport(templateName, templateFile string, semester int, section string) error {
	section = strings.TrimSpace(section)
	if semester <= 0 || section == "" {
		return errors.New("-semester and -section are both required to import")
	}

	weekly, err := loadTemplate(templateName, templateFile)
	if err != nil {
		return err
	}
	entries, rooms := scheduleEntries(weekly, semester, section)

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repository.NewClassroomRepository(db)
	if err := repo.EnsureClassrooms(ctx, rooms); err != nil {
		return err
	}
	if err := repo.ReplaceSchedule(ctx, semester, section, entries); err != nil {
		return err
	}

	slog.Info("timetable imported", "semester", semester, "section", section, "classes", len(entries), "classrooms", len(rooms))
	return nil
}

// scheduleEntries flattens weekly into schedule rows and the distinct rooms
// they use, in first-seen order.
func scheduleEntries(weekly timetable.Weekly, semester int, section string) ([]model.ScheduleEntry, []string) {
	var (
		entries []model.ScheduleEntry
		rooms   []string
		seen    = map[string]bool{}
	)
	for _, c := range timetable.Classes(weekly) {
		entries = append(entries, model.ScheduleEntry{
			Semester:  semester,
			Section:   section,
			DayOfWeek: c.Weekday.String(),
			Slot:      c.Slot,
			Subject:   c.Subject,
			Classroom: c.Room,
		})
		if !seen[c.Room] {
			seen[c.Room] = true
			rooms = append(rooms, c.Room)
		}
	}
	return entries, rooms
}

func loadTemplate(name, file string) (timetable.Weekly, error) {
	if file == "" {
		return timetable.Builtin(name)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return timetable.Parse(f)
}
