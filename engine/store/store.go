// Package store persists viewpoint sessions in SQLite or Postgres through gorm.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/glebarez/sqlite"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverSQLite stores sessions in a local SQLite file.
	DriverSQLite = "sqlite"
	// DriverPostgres stores sessions in a Postgres database.
	DriverPostgres = "postgres"
)

var (
	// ErrSessionNotFound is returned when no session has the requested name.
	ErrSessionNotFound = errors.New("store: session not found")

	// ErrEmptyName is returned when a session is saved without a name.
	ErrEmptyName = errors.New("store: session name cannot be empty")
)

// Config selects the database. Path is used by SQLite, DSN by Postgres.
type Config struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type storeImpl struct {
	mu *sync.Mutex

	db     *gorm.DB
	logger zerolog.Logger
}

// Store saves and loads named viewpoint sessions.
type Store interface {
	// Save writes the list and parameters under name, replacing any session of the same name.
	//
	// Parameters:
	//   - name: the session name
	//   - list: the viewpoints in list order
	//   - params: the fly-through parameters
	//
	// Returns:
	//   - error: ErrEmptyName or a wrapped database error
	Save(name string, list *viewpoint.List, params flythrough.Parameters) error

	// Load reads a session.
	//
	// Parameters:
	//   - name: the session name
	//
	// Returns:
	//   - *viewpoint.List: the viewpoints in saved order
	//   - flythrough.Parameters: the saved parameters, defaults if none were stored
	//   - error: ErrSessionNotFound or a wrapped database error
	Load(name string) (*viewpoint.List, flythrough.Parameters, error)

	// Sessions returns the names of all saved sessions, sorted.
	Sessions() ([]string, error)

	// Delete removes a session and its viewpoints.
	//
	// Parameters:
	//   - name: the session name
	//
	// Returns:
	//   - error: ErrSessionNotFound or a wrapped database error
	Delete(name string) error

	// Close releases the database connection.
	Close() error
}

var _ Store = &storeImpl{}

// Open connects to the configured database and migrates the schema.
//
// Parameters:
//   - cfg: the driver selection
//   - log: the logger for connection events
//
// Returns:
//   - Store: the opened store
//   - error: an error if the driver is unknown or the database cannot be opened
func Open(cfg Config, log zerolog.Logger) (Store, error) {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		path := cfg.Path
		if path == "" {
			path = "file::memory:"
		}
		db, err = gorm.Open(sqlite.Open(path), gormCfg)
		if err == nil {
			err = db.Exec("PRAGMA foreign_keys = ON;").Error
		}
		log.Info().Str("path", path).Msg("using SQLite session store")
	case DriverPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gormCfg)
		log.Info().Msg("using Postgres session store")
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}

	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &storeImpl{
		mu:     &sync.Mutex{},
		db:     db,
		logger: log,
	}, nil
}

func (s *storeImpl) Save(name string, list *viewpoint.List, params flythrough.Parameters) error {
	if name == "" {
		return ErrEmptyName
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var sess Session
		err := tx.Where("name = ?", name).First(&sess).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sess = Session{Name: name, Parameters: raw}
			if err := tx.Create(&sess).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			sess.Parameters = raw
			if err := tx.Save(&sess).Error; err != nil {
				return err
			}
			if err := tx.Where("session_id = ?", sess.ID).Delete(&Viewpoint{}).Error; err != nil {
				return err
			}
		}

		rows := toRows(sess.ID, list)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save session %q: %w", name, err)
	}
	s.logger.Debug().Str("session", name).Int("viewpoints", list.Len()).Msg("session saved")
	return nil
}

func (s *storeImpl) Load(name string) (*viewpoint.List, flythrough.Parameters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params := flythrough.DefaultParameters()
	var sess Session
	err := s.db.Where("name = ?", name).
		Preload("Viewpoints", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, params, ErrSessionNotFound
	}
	if err != nil {
		return nil, params, fmt.Errorf("failed to load session %q: %w", name, err)
	}

	if len(sess.Parameters) > 0 {
		if err := json.Unmarshal(sess.Parameters, &params); err != nil {
			return nil, params, fmt.Errorf("failed to decode parameters of %q: %w", name, err)
		}
	}

	items := make([]*viewpoint.Store, 0, len(sess.Viewpoints))
	for _, row := range sess.Viewpoints {
		items = append(items, fromRow(row, s.logger))
	}
	return viewpoint.NewList(items...), params, nil
}

func (s *storeImpl) Sessions() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	if err := s.db.Model(&Session{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return names, nil
}

func (s *storeImpl) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var sess Session
		err := tx.Where("name = ?", name).First(&sess).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to delete session %q: %w", name, err)
		}
		if err := tx.Where("session_id = ?", sess.ID).Delete(&Viewpoint{}).Error; err != nil {
			return fmt.Errorf("failed to delete viewpoints of %q: %w", name, err)
		}
		if err := tx.Delete(&sess).Error; err != nil {
			return fmt.Errorf("failed to delete session %q: %w", name, err)
		}
		return nil
	})
}

func (s *storeImpl) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

func toRows(sessionID uint, list *viewpoint.List) []Viewpoint {
	if list == nil {
		return nil
	}
	rows := make([]Viewpoint, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		vp := list.At(i)
		d := vp.Direction()
		rows = append(rows, Viewpoint{
			SessionID:  sessionID,
			Position:   i,
			UUID:       vp.ID.String(),
			Name:       vp.Name,
			LocationX:  vp.Location[0],
			LocationY:  vp.Location[1],
			LocationZ:  vp.Location[2],
			DirectionX: d[0],
			DirectionY: d[1],
			DirectionZ: d[2],
			MagIndex:   vp.MagIndex,
			Mode:       vp.Mode.String(),
			Near:       vp.Near,
			Far:        vp.Far,
		})
	}
	return rows
}

func fromRow(row Viewpoint, log zerolog.Logger) *viewpoint.Store {
	vp := viewpoint.New(row.Name,
		mgl64.Vec3{row.LocationX, row.LocationY, row.LocationZ},
		mgl64.Vec3{row.DirectionX, row.DirectionY, row.DirectionZ})
	if id, err := uuid.Parse(row.UUID); err == nil {
		vp.ID = id
	}
	vp.SetMagIndex(row.MagIndex)
	mode, err := viewpoint.ParseMode(row.Mode)
	if err != nil {
		log.Warn().Err(err).Str("viewpoint", row.Name).Msg("falling back to Free mode")
	}
	vp.Mode = mode
	vp.Near, vp.Far = row.Near, row.Far
	return vp
}
