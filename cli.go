package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/borgmon/study-alarm/pkg/alarm"
	"github.com/borgmon/study-alarm/pkg/calendar"
	"github.com/borgmon/study-alarm/pkg/logger"
	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/borgmon/study-alarm/pkg/schedule"
	"github.com/borgmon/study-alarm/pkg/store"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var errUsage = errors.New("incorrect usage")

// cliEnv holds what the commands need from the outside world
type cliEnv struct {
	configPath string
	openApp    func(appID string) fyne.App
	newLogger  func(cfg *models.Config) (*zap.Logger, error)
	now        func() time.Time

	// Loaded lazily by the first command that needs them
	app fyne.App
	svc *services
}

func defaultEnv() *cliEnv {
	return &cliEnv{
		configPath: store.DefaultConfigPath(),
		openApp:    func(appID string) fyne.App { return app.NewWithID(appID) },
		newLogger: func(cfg *models.Config) (*zap.Logger, error) {
			return logger.New(cfg.LogLevel, cfg.Development)
		},
		now: time.Now,
	}
}

func (env *cliEnv) load(ctx *cli.Context) (*services, error) {
	if env.svc != nil {
		return env.svc, nil
	}

	path := ctx.GlobalString("config")
	if path == "" {
		path = env.configPath
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	log, err := env.newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	log.Debug("Configuration loaded", zap.String("path", path), zap.Stringer("config", cfg))

	env.app = env.openApp(cfg.AppID)
	env.svc = newServices(cfg, env.app.Preferences(), log)
	return env.svc, nil
}

func newCLI(env *cliEnv) *cli.App {
	a := cli.NewApp()
	a.Name = "study-alarm"
	a.HelpName = "study-alarm"
	a.Usage = "weekly study schedule alarms in the system tray"
	a.UsageText = "study-alarm [--config FILE] <command> [arguments...]"
	a.Version = "1.0.0"
	a.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to the YAML configuration file",
			Value: env.configPath,
		},
	}
	a.Action = env.run
	a.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "start the tray app and the alarm clock (default)",
			Action: env.run,
		},
		{
			Name:   "status",
			Usage:  "show whether alarms and sound are on and what fires next",
			Action: env.status,
		},
		{
			Name:  "today",
			Usage: "show the schedule governing today or another weekday",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "day, d",
					Usage: "weekday index, 0 = Sunday ... 6 = Saturday (default: today)",
					Value: -1,
				},
			},
			Action: env.today,
		},
		{
			Name:   "next",
			Usage:  "show the next alarm later today",
			Action: env.next,
		},
		{
			Name:      "alarms",
			Usage:     "turn alarms on or off",
			ArgsUsage: "on|off",
			Action:    env.alarms,
		},
		{
			Name:      "sound",
			Usage:     "turn the alarm sound on or off",
			ArgsUsage: "on|off",
			Action:    env.sound,
		},
		{
			Name:  "export",
			Usage: "write the coming week as an iCalendar file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output file, - for stdout",
					Value: "-",
				},
			},
			Action: env.export,
		},
		{
			Name:  "schedules",
			Usage: "manage custom schedules",
			Subcommands: []cli.Command{
				{
					Name:   "list",
					Usage:  "list custom schedules in precedence order",
					Action: env.listSchedules,
				},
				{
					Name:      "show",
					Usage:     "show the items of a custom schedule",
					ArgsUsage: "ID",
					Action:    env.showSchedule,
				},
				{
					Name:  "create",
					Usage: "create a custom schedule",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "name, n", Usage: "display name", Value: schedule.DefaultScheduleName},
						cli.IntSliceFlag{Name: "day, d", Usage: "weekday index to cover, repeatable"},
					},
					Action: env.createSchedule,
				},
				{
					Name:      "rename",
					Usage:     "rename a custom schedule",
					ArgsUsage: "ID NAME",
					Action:    env.renameSchedule,
				},
				{
					Name:      "toggle-day",
					Usage:     "add or remove a weekday from a custom schedule",
					ArgsUsage: "ID DAY",
					Action:    env.toggleDay,
				},
				{
					Name:      "add-item",
					Usage:     "add an alarm to a custom schedule",
					ArgsUsage: "ID",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "time, t", Usage: "HH:MM"},
						cli.StringFlag{Name: "activity, a", Usage: "label shown in the notification"},
						cli.StringFlag{Name: "category", Usage: "study, break, lunch or dinner", Value: string(models.CategoryStudy)},
						cli.StringFlag{Name: "duration", Usage: "free-form duration, e.g. 2h"},
					},
					Action: env.addItem,
				},
				{
					Name:      "remove-item",
					Usage:     "remove an alarm from a custom schedule",
					ArgsUsage: "ID ITEM_ID",
					Action:    env.removeItem,
				},
				{
					Name:      "delete",
					Usage:     "delete a custom schedule",
					ArgsUsage: "ID",
					Action:    env.deleteSchedule,
				},
			},
		},
	}
	return a
}

func (env *cliEnv) run(ctx *cli.Context) error {
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}
	svc.logger.Info("Starting study alarm", zap.Stringer("config", svc.config))

	sa, err := newStudyAlarm(env.app, svc)
	if err != nil {
		return err
	}
	sa.initialize()
	sa.run()
	return nil
}

func (env *cliEnv) status(ctx *cli.Context) error {
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}
	now := env.now()
	w := ctx.App.Writer

	fmt.Fprintf(w, "Alarms: %s\n", onOff(svc.registry.Active()))
	fmt.Fprintf(w, "Sound:  %s\n", onOff(svc.registry.SoundEnabled()))
	fmt.Fprintf(w, "Today:  %s\n", svc.registry.ResolveForDay(int(now.Weekday())).Label)
	writeNext(w, svc.registry, now)
	return nil
}

func (env *cliEnv) today(ctx *cli.Context) error {
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}

	day := ctx.Int("day")
	if day < 0 {
		day = int(env.now().Weekday())
	}
	if day > 6 {
		return fmt.Errorf("day %d: %w", day, schedule.ErrInvalidDay)
	}

	resolved := svc.registry.ResolveForDay(day)
	writeResolved(ctx.App.Writer, time.Weekday(day), resolved)
	return nil
}

func (env *cliEnv) next(ctx *cli.Context) error {
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}
	writeNext(ctx.App.Writer, svc.registry, env.now())
	return nil
}

func (env *cliEnv) alarms(ctx *cli.Context) error {
	on, err := parseSwitch(ctx.Args().First())
	if err != nil {
		return err
	}
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}
	if err := svc.editor.SetActive(on); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Alarms %s\n", onOff(on))
	return nil
}

func (env *cliEnv) sound(ctx *cli.Context) error {
	on, err := parseSwitch(ctx.Args().First())
	if err != nil {
		return err
	}
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}
	if err := svc.editor.SetSoundEnabled(on); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Sound %s\n", onOff(on))
	return nil
}

func (env *cliEnv) export(ctx *cli.Context) error {
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if out == "" || out == "-" {
		return calendar.ExportWeek(ctx.App.Writer, svc.registry, env.now())
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := calendar.ExportWeek(f, svc.registry, env.now()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}
	fmt.Fprintf(ctx.App.Writer, "Week exported to %s\n", out)
	return nil
}

func (env *cliEnv) listSchedules(ctx *cli.Context) error {
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}
	writeSchedules(ctx.App.Writer, svc.registry.Schedules())
	return nil
}

func (env *cliEnv) showSchedule(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("%w: schedules show ID", errUsage)
	}
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}
	s, err := svc.editor.Edit(ctx.Args().First())
	if err != nil {
		return err
	}
	writeSchedule(ctx.App.Writer, *s)
	return nil
}

func (env *cliEnv) createSchedule(ctx *cli.Context) error {
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}

	s := svc.editor.Create()
	svc.editor.Rename(s, ctx.String("name"))
	for _, day := range ctx.IntSlice("day") {
		if s.HasDay(day) {
			continue
		}
		if err := svc.editor.ToggleDay(s, day); err != nil {
			return err
		}
	}
	if err := svc.editor.Save(s); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Created schedule %s\n", s.ID)
	return nil
}

func (env *cliEnv) renameSchedule(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("%w: schedules rename ID NAME", errUsage)
	}
	return env.editSchedule(ctx, func(editor *schedule.Editor, s *models.CustomSchedule) error {
		editor.Rename(s, ctx.Args().Get(1))
		return nil
	})
}

func (env *cliEnv) toggleDay(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("%w: schedules toggle-day ID DAY", errUsage)
	}
	day, err := strconv.Atoi(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("day %q: %w", ctx.Args().Get(1), schedule.ErrInvalidDay)
	}
	return env.editSchedule(ctx, func(editor *schedule.Editor, s *models.CustomSchedule) error {
		return editor.ToggleDay(s, day)
	})
}

func (env *cliEnv) addItem(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("%w: schedules add-item ID --time HH:MM --activity TEXT --duration TEXT", errUsage)
	}
	var added models.ScheduleItem
	err := env.editSchedule(ctx, func(editor *schedule.Editor, s *models.CustomSchedule) error {
		item, err := editor.AddItem(s, schedule.ItemCandidate{
			Time:     ctx.String("time"),
			Activity: ctx.String("activity"),
			Category: models.Category(ctx.String("category")),
			Duration: ctx.String("duration"),
		})
		added = item
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Added item %s at %s\n", added.ID, added.Time)
	return nil
}

func (env *cliEnv) removeItem(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("%w: schedules remove-item ID ITEM_ID", errUsage)
	}
	return env.editSchedule(ctx, func(editor *schedule.Editor, s *models.CustomSchedule) error {
		editor.RemoveItem(s, ctx.Args().Get(1))
		return nil
	})
}

func (env *cliEnv) deleteSchedule(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("%w: schedules delete ID", errUsage)
	}
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}

	id := ctx.Args().First()
	if _, ok := svc.registry.Schedule(id); !ok {
		return fmt.Errorf("delete %s: %w", id, schedule.ErrScheduleNotFound)
	}
	if err := svc.editor.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Deleted schedule %s\n", id)
	return nil
}

// editSchedule stages the schedule named by the first argument, applies fn and saves it
func (env *cliEnv) editSchedule(ctx *cli.Context, fn func(*schedule.Editor, *models.CustomSchedule) error) error {
	svc, err := env.load(ctx)
	if err != nil {
		return err
	}

	s, err := svc.editor.Edit(ctx.Args().First())
	if err != nil {
		return err
	}
	if err := fn(svc.editor, s); err != nil {
		return err
	}
	if err := svc.editor.Save(s); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Saved schedule %s\n", s.ID)
	return nil
}

func writeNext(w io.Writer, registry *schedule.Registry, now time.Time) {
	resolved := registry.ResolveForDay(int(now.Weekday()))
	next := alarm.NextAfter(resolved.Items, models.ClockKey(now))
	if next == nil {
		fmt.Fprintln(w, "No more alarms today")
		return
	}
	fmt.Fprintf(w, "Next:   %s %s %s (%s)\n", next.Time, next.Category.Glyph(), next.Activity, next.Duration)
}

func parseSwitch(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected on or off, got %q", errUsage, arg)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
