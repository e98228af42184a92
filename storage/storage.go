// Package storage opens the repositories of the configured database engine.
package storage

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/program"
	"github.com/trezcool/rekodi/core/student"
	"github.com/trezcool/rekodi/core/user"
	"github.com/trezcool/rekodi/storage/database"
	dummydb "github.com/trezcool/rekodi/storage/database/dummy"
	sqlxrepos "github.com/trezcool/rekodi/storage/database/sqlx"
)

// Database engines
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
)

var ErrUnknownEngine = errors.New("unknown database engine")

type Repositories struct {
	DB *sql.DB // nil for the memory engine

	User       user.Repository
	Program    program.Repository
	Course     course.Repository
	Student    student.Repository
	Enrollment enrollment.Repository
}

// Open returns the repositories of conf.Database.Engine.
// With postgres, the database is created if needed and migrated when migrate is true.
func Open(conf *core.Config, migrate bool) (*Repositories, error) {
	switch conf.Database.Engine {
	case EngineMemory:
		db, err := dummydb.Open()
		if err != nil {
			return nil, errors.Wrap(err, "opening memory database")
		}
		return &Repositories{
			User:       dummydb.NewUserRepository(db),
			Program:    dummydb.NewProgramRepository(db),
			Course:     dummydb.NewCourseRepository(db),
			Student:    dummydb.NewStudentRepository(db),
			Enrollment: dummydb.NewEnrollmentRepository(db),
		}, nil

	case EnginePostgres:
		db, err := openPostgres(conf, migrate)
		if err != nil {
			return nil, err
		}
		xdb := sqlxrepos.NewDB(db)
		return &Repositories{
			DB:         db,
			User:       sqlxrepos.NewUserRepository(xdb),
			Program:    sqlxrepos.NewProgramRepository(xdb),
			Course:     sqlxrepos.NewCourseRepository(xdb),
			Student:    sqlxrepos.NewStudentRepository(xdb),
			Enrollment: sqlxrepos.NewEnrollmentRepository(xdb),
		}, nil
	}
	return nil, errors.Wrap(ErrUnknownEngine, conf.Database.Engine)
}

func openPostgres(conf *core.Config, migrate bool) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := database.Ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Close closes the database, if any.
func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
