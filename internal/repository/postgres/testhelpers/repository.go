package testhelpers

import (
	"github.com/competition-service/internal/domain/repository"
	"github.com/competition-service/internal/repository/postgres"
)

// NewProjectRepository создает репозиторий проектов поверх тестовой базы
func (tdb *TestDB) NewProjectRepository() repository.ProjectRepository {
	return postgres.NewProjectRepository(postgres.NewDBForTest(tdb.DB, tdb.Logger))
}

// NewBaseDataRepository создает репозиторий справочных данных поверх тестовой базы
func (tdb *TestDB) NewBaseDataRepository() repository.BaseDataRepository {
	return postgres.NewBaseDataRepository(postgres.NewDBForTest(tdb.DB, tdb.Logger))
}
