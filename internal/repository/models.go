package repository

// LocationModel is the GORM model for the locations table. Every coordinate a
// route or step references gets its own row; rows are never shared.
type LocationModel struct {
	ID  int64   `gorm:"primaryKey;autoIncrement"`
	Lat float64 `gorm:"column:lat;not null"`
	Lng float64 `gorm:"column:lng;not null"`
}

// TableName returns the table name for the GORM model.
func (LocationModel) TableName() string { return "locations" }

// RouteModel is the GORM model for the routes table.
type RouteModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Distance   int    `gorm:"column:distance;not null;default:0"`
	Duration   int    `gorm:"column:duration;not null;default:0"`
	EndAddr    string `gorm:"column:end_addr;type:text"`
	EndLoc     int64  `gorm:"column:end_loc"`
	StartAddr  string `gorm:"column:start_addr;type:text"`
	StartLoc   int64  `gorm:"column:start_loc"`
	BoundsTL   int64  `gorm:"column:bounds_tl"`
	BoundsBR   int64  `gorm:"column:bounds_br"`
	Polyline   string `gorm:"column:polyline;type:text;not null"`
	Copyrights string `gorm:"column:copyrights;type:text"`
	Summary    string `gorm:"column:summary;type:text"`
	Warnings   string `gorm:"column:warnings;type:text"`
}

// TableName returns the table name for the GORM model.
func (RouteModel) TableName() string { return "routes" }

// StepModel is the GORM model for the steps table. Position keeps the step
// order within its route independent of row id assignment.
type StepModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	RouteID    int64  `gorm:"column:route_id;not null;index:idx_steps_route_position,priority:1"`
	Position   int    `gorm:"column:position;not null;index:idx_steps_route_position,priority:2"`
	Distance   int    `gorm:"column:distance;not null;default:0"`
	Duration   int    `gorm:"column:duration;not null;default:0"`
	StartLoc   int64  `gorm:"column:start_loc"`
	EndLoc     int64  `gorm:"column:end_loc"`
	TravelMode string `gorm:"column:travel_mode;type:text"`
	Instr      string `gorm:"column:instr;type:text"`
	Points     string `gorm:"column:points;type:text"`
}

// TableName returns the table name for the GORM model.
func (StepModel) TableName() string { return "steps" }

// SchemaMetaModel holds the single schema version row.
type SchemaMetaModel struct {
	ID      int `gorm:"primaryKey;autoIncrement:false"`
	Version int `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SchemaMetaModel) TableName() string { return "schema_meta" }

// cacheModels lists the tables that make up the cached dataset, children first.
func cacheModels() []any {
	return []any{&StepModel{}, &RouteModel{}, &LocationModel{}}
}
