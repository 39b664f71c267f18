package schedule

import "github.com/borgmon/study-alarm/pkg/models"

// Band is one of the built-in weekly patterns
type Band struct {
	Name  string
	Label string
	Items []models.ScheduleItem
}

const (
	BandRegular = "regular"
	BandTuesday = "tuesday"
	BandWeekend = "weekend"
)

func item(id, at, activity string, category models.Category, duration string) models.ScheduleItem {
	return models.ScheduleItem{ID: id, Time: at, Activity: activity, Category: category, Duration: duration}
}

// defaultBands is never mutated; bandForDay hands out copies.
var defaultBands = map[string]Band{
	// Monday, Wednesday, Thursday, Friday
	BandRegular: {
		Name:  BandRegular,
		Label: "Monday, Wednesday, Thursday, Friday (6h/day)",
		Items: []models.ScheduleItem{
			item("1", "08:30", "Estudo", models.CategoryStudy, "2h"),
			item("2", "10:30", "Pausa", models.CategoryBreak, "15min"),
			item("3", "10:45", "Estudo", models.CategoryStudy, "2h"),
			item("4", "14:30", "Estudo", models.CategoryStudy, "2h"),
		},
	},
	BandTuesday: {
		Name:  BandTuesday,
		Label: "Tuesday (12h30min of study)",
		Items: []models.ScheduleItem{
			item("5", "08:00", "Estudo", models.CategoryStudy, "2h"),
			item("6", "10:00", "Pausa", models.CategoryBreak, "15min"),
			item("7", "10:15", "Estudo", models.CategoryStudy, "2h"),
			item("8", "12:15", "Almoço e descanso", models.CategoryLunch, "1h45min"),
			item("9", "14:00", "Estudo", models.CategoryStudy, "2h"),
			item("10", "16:00", "Pausa", models.CategoryBreak, "15min"),
			item("11", "16:15", "Estudo", models.CategoryStudy, "2h"),
			item("12", "18:15", "Pausa", models.CategoryBreak, "15min"),
			item("13", "18:30", "Estudo", models.CategoryStudy, "2h"),
			item("14", "20:30", "Jantar / descanso", models.CategoryDinner, "1h"),
			item("15", "21:30", "Estudo", models.CategoryStudy, "1h"),
		},
	},
	BandWeekend: {
		Name:  BandWeekend,
		Label: "Weekend (no schedule)",
		Items: []models.ScheduleItem{},
	},
}

// BandForDay returns a copy of the default band covering the weekday index.
// Indices outside Monday..Friday, including invalid ones, get the empty weekend band.
func BandForDay(day int) Band {
	var b Band
	switch day {
	case 2:
		b = defaultBands[BandTuesday]
	case 1, 3, 4, 5:
		b = defaultBands[BandRegular]
	default:
		b = defaultBands[BandWeekend]
	}
	b.Items = append([]models.ScheduleItem{}, b.Items...)
	return b
}
