package reminder

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/draftnag/draft-nag/app/database"
)

// Setting defaults applied when a key is absent from the store.
const (
	DefaultAgeDays     = 0
	DefaultAgeBasis    = BasisCreated
	DefaultTypes       = TypesBoth
	DefaultTriggerDay  = "Monday"
	DefaultTriggerTime = "1am"
)

var triggerHours = map[string]int{
	"12am": 0, "1am": 1, "2am": 2, "3am": 3, "4am": 4, "5am": 5,
	"6am": 6, "7am": 7, "8am": 8, "9am": 9, "10am": 10, "11am": 11,
	"12pm": 12, "1pm": 13, "2pm": 14, "3pm": 15, "4pm": 16, "5pm": 17,
	"6pm": 18, "7pm": 19, "8pm": 20, "9pm": 21, "10pm": 22, "11pm": 23,
}

// ParseTriggerHour maps a stored trigger time ("1am".."12pm" form) to its
// clock hour.
func ParseTriggerHour(value string) (int, error) {
	hour, ok := triggerHours[value]
	if !ok {
		return 0, fmt.Errorf("invalid trigger time: %q", value)
	}
	return hour, nil
}

// Store is the typed view over the persistent key/value settings repository.
type Store struct {
	repo database.SettingsRepository
}

func NewStore(repo database.SettingsRepository) *Store {
	return &Store{repo: repo}
}

// Load reads the reminder settings, substituting documented defaults for
// absent keys. A missing key is never an error.
func (s *Store) Load() (*Settings, error) {
	settings := &Settings{
		AgeDays:     DefaultAgeDays,
		AgeBasis:    DefaultAgeBasis,
		Types:       DefaultTypes,
		TriggerDay:  DefaultTriggerDay,
		TriggerTime: DefaultTriggerTime,
	}

	if value, ok, err := s.repo.Get(KeyAge); err != nil {
		return nil, err
	} else if ok {
		age, err := strconv.Atoi(value)
		if err != nil || age < 0 {
			return nil, fmt.Errorf("invalid stored value for %s: %q", KeyAge, value)
		}
		settings.AgeDays = age
	}

	if value, ok, err := s.repo.Get(KeyBasis); err != nil {
		return nil, err
	} else if ok {
		settings.AgeBasis = value
	}

	if value, ok, err := s.repo.Get(KeyTypes); err != nil {
		return nil, err
	} else if ok {
		settings.Types = value
	}

	if value, ok, err := s.repo.Get(KeyDay); err != nil {
		return nil, err
	} else if ok {
		settings.TriggerDay = value
	}

	if value, ok, err := s.repo.Get(KeyTime); err != nil {
		return nil, err
	} else if ok {
		settings.TriggerTime = value
	}

	return settings, nil
}

// Save validates and persists the reminder settings.
func (s *Store) Save(settings *Settings) error {
	if err := Validate(settings); err != nil {
		return err
	}

	pairs := map[string]string{
		KeyAge:   strconv.Itoa(settings.AgeDays),
		KeyBasis: settings.AgeBasis,
		KeyTypes: settings.Types,
		KeyDay:   settings.TriggerDay,
		KeyTime:  settings.TriggerTime,
	}

	for key, value := range pairs {
		if err := s.repo.Set(key, value); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks every enum field of the settings.
func Validate(settings *Settings) error {
	if settings.AgeDays < 0 {
		return fmt.Errorf("age threshold must be non-negative, got %d", settings.AgeDays)
	}
	if settings.AgeBasis != BasisCreated && settings.AgeBasis != BasisModified {
		return fmt.Errorf("invalid age basis: %q", settings.AgeBasis)
	}
	switch settings.Types {
	case TypesPost, TypesPage, TypesBoth:
	default:
		return fmt.Errorf("invalid content types: %q", settings.Types)
	}
	if _, ok := weekdays[settings.TriggerDay]; !ok && settings.TriggerDay != DayDaily {
		return fmt.Errorf("invalid trigger day: %q", settings.TriggerDay)
	}
	if _, err := ParseTriggerHour(settings.TriggerTime); err != nil {
		return err
	}
	return nil
}

// PrevTriggerTime reads the last-applied trigger time, if any.
func (s *Store) PrevTriggerTime() (string, bool, error) {
	return s.repo.Get(KeyPrevTime)
}

func (s *Store) SetPrevTriggerTime(value string) error {
	return s.repo.Set(KeyPrevTime, value)
}

// LoadRunReport returns the persisted result of the most recent dispatch
// pass, or nil before the first run.
func (s *Store) LoadRunReport() (*RunReport, error) {
	value, ok, err := s.repo.Get(KeyLastRun)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var report RunReport
	if err := json.Unmarshal([]byte(value), &report); err != nil {
		return nil, fmt.Errorf("invalid stored run report: %w", err)
	}

	return &report, nil
}

func (s *Store) SaveRunReport(report *RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}

	return s.repo.Set(KeyLastRun, string(data))
}

// ClearAll removes every stored setting, including the last-run report and
// the saved previous trigger time. Used by the uninstall path.
func (s *Store) ClearAll() error {
	return s.repo.DeleteAll()
}
