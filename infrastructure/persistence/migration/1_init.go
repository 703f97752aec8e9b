package migration

import (
	"log"

	"gorm.io/gorm"

	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/infrastructure/persistence/database"
)

func Up1() {
	database := database.GetDb()
	createTables(database)
}

func createTables(database *gorm.DB) {
	tables := []any{}

	tables = addNewTable(database, model.SystemSettings{}, tables)
	tables = addNewTable(database, model.RoomActivityLog{}, tables)

	err := database.Migrator().CreateTable(tables...)
	if err != nil {
		log.Printf("Error migrating: %v\n", err)
	}
	log.Println("Tables Created")
}

func addNewTable(database *gorm.DB, model any, tables []any) []any {
	if !database.Migrator().HasTable(model) {
		tables = append(tables, model)
	}
	return tables
}
