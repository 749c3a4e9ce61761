package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/tableside/concierge/agent/contract"
)

// PostgresConfig configures the bun-backed record store.
type PostgresConfig struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout      time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"8"`
}

// PostgresStore persists restaurants, users and reservations in
// Postgres through bun. Queries keep the contract's storage-order
// guarantee by always sorting on id.
type PostgresStore struct {
	db *bun.DB
}

type restaurantRow struct {
	bun.BaseModel `bun:"table:restaurants,alias:r"`

	ID          int                             `bun:"id,pk,autoincrement"`
	Name        string                          `bun:"name,notnull"`
	Cuisine     string                          `bun:"cuisine,notnull"`
	Location    string                          `bun:"location,notnull"`
	Address     string                          `bun:"address"`
	PriceRange  string                          `bun:"price_range,notnull"`
	Rating      float64                         `bun:"rating"`
	Capacity    int                             `bun:"capacity,notnull"`
	OpeningTime string                          `bun:"opening_time"`
	ClosingTime string                          `bun:"closing_time"`
	Features    map[string]bool                 `bun:"features,type:jsonb"`
	Menu        map[string][]contractx.MenuItem `bun:"menu,type:jsonb"`
	CreatedAt   time.Time                       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          int                    `bun:"id,pk,autoincrement"`
	Name        string                 `bun:"name,notnull"`
	Email       string                 `bun:"email,notnull,unique"`
	Phone       string                 `bun:"phone,notnull"`
	Preferences *contractx.Preferences `bun:"preferences,type:jsonb,nullzero"`
	CreatedAt   time.Time              `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type reservationRow struct {
	bun.BaseModel `bun:"table:reservations,alias:rv"`

	ID              int       `bun:"id,pk,autoincrement"`
	RestaurantID    int       `bun:"restaurant_id,notnull"`
	UserID          int       `bun:"user_id,notnull"`
	Date            string    `bun:"date,notnull"`
	Time            string    `bun:"time,notnull"`
	PartySize       int       `bun:"party_size,notnull"`
	Status          string    `bun:"status,notnull"`
	SpecialRequests string    `bun:"special_requests"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithTimeout(timeout),
	))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &PostgresStore{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// Init creates the schema when it does not exist yet.
func (s *PostgresStore) Init(ctx context.Context) error {
	models := []any{
		(*restaurantRow)(nil),
		(*userRow)(nil),
		(*reservationRow)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ListRestaurants(ctx context.Context, filter contractx.RestaurantFilter) ([]contractx.Restaurant, error) {
	var rows []restaurantRow
	q := s.db.NewSelect().Model(&rows).Order("id ASC")
	if filter.Cuisine != "" {
		q = q.Where("LOWER(cuisine) = LOWER(?)", filter.Cuisine)
	}
	if filter.Location != "" {
		q = q.Where("LOWER(location) = LOWER(?)", filter.Location)
	}
	if filter.PriceRange != "" {
		q = q.Where("price_range = ?", filter.PriceRange)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	out := make([]contractx.Restaurant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRestaurant())
	}
	return out, nil
}

func (s *PostgresStore) GetRestaurant(ctx context.Context, id int) (*contractx.Restaurant, error) {
	var row restaurantRow
	err := s.db.NewSelect().Model(&row).Where("r.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: restaurant id=%d", contractx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	r := row.toRestaurant()
	return &r, nil
}

func (s *PostgresStore) AddRestaurant(ctx context.Context, r contractx.Restaurant) (*contractx.Restaurant, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", contractx.ErrValidation)
	}
	if r.Capacity <= 0 {
		return nil, fmt.Errorf("%w: restaurant capacity must be positive", contractx.ErrValidation)
	}

	row := restaurantRowFrom(r)
	if _, err := s.db.NewInsert().Model(&row).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("add restaurant: %w", err)
	}
	created := row.toRestaurant()
	return &created, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int) (*contractx.User, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user id=%d", contractx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := row.toUser()
	return &u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*contractx.User, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("LOWER(email) = LOWER(?)", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user email=%s", contractx.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	u := row.toUser()
	return &u, nil
}

func (s *PostgresStore) AddUser(ctx context.Context, u contractx.User) (*contractx.User, error) {
	if u.Name == "" || u.Email == "" || u.Phone == "" {
		return nil, fmt.Errorf("%w: name, email, and phone are required", contractx.ErrValidation)
	}

	exists, err := s.db.NewSelect().Model((*userRow)(nil)).
		Where("LOWER(email) = LOWER(?)", u.Email).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check user email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user with email %s already exists", contractx.ErrConflict, u.Email)
	}

	row := userRow{Name: u.Name, Email: u.Email, Phone: u.Phone, Preferences: u.Preferences}
	if _, err := s.db.NewInsert().Model(&row).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	created := row.toUser()
	return &created, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id int, patch contractx.UserPatch) (*contractx.User, error) {
	row := userRow{ID: id}
	q := s.db.NewUpdate().Model(&row).WherePK().Returning("*")

	touched := false
	if patch.Name != nil {
		row.Name = *patch.Name
		q = q.Column("name")
		touched = true
	}
	if patch.Email != nil {
		row.Email = *patch.Email
		q = q.Column("email")
		touched = true
	}
	if patch.Phone != nil {
		row.Phone = *patch.Phone
		q = q.Column("phone")
		touched = true
	}
	if patch.Preferences != nil {
		prefs := *patch.Preferences
		row.Preferences = &prefs
		q = q.Column("preferences")
		touched = true
	}
	if !touched {
		return s.GetUser(ctx, id)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: user id=%d", contractx.ErrNotFound, id)
	}
	u := row.toUser()
	return &u, nil
}

func (s *PostgresStore) ListReservations(ctx context.Context, filter contractx.ReservationFilter) ([]contractx.Reservation, error) {
	var rows []reservationRow
	q := s.db.NewSelect().Model(&rows).Order("id ASC")
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	out := make([]contractx.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toReservation())
	}
	return out, nil
}

func (s *PostgresStore) GetReservation(ctx context.Context, id int) (*contractx.Reservation, error) {
	var row reservationRow
	err := s.db.NewSelect().Model(&row).Where("rv.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reservation id=%d", contractx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	r := row.toReservation()
	return &r, nil
}

func (s *PostgresStore) AddReservation(ctx context.Context, r contractx.Reservation) (*contractx.Reservation, error) {
	row := reservationRow{
		RestaurantID:    r.RestaurantID,
		UserID:          r.UserID,
		Date:            r.Date,
		Time:            r.Time,
		PartySize:       r.PartySize,
		Status:          contractx.StatusConfirmed,
		SpecialRequests: r.SpecialRequests,
	}
	if _, err := s.db.NewInsert().Model(&row).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("add reservation: %w", err)
	}
	created := row.toReservation()
	return &created, nil
}

func (s *PostgresStore) UpdateReservation(ctx context.Context, id int, patch contractx.ReservationPatch) (*contractx.Reservation, error) {
	row := reservationRow{ID: id}
	q := s.db.NewUpdate().Model(&row).WherePK().Returning("*")

	touched := false
	if patch.Date != nil {
		row.Date = *patch.Date
		q = q.Column("date")
		touched = true
	}
	if patch.Time != nil {
		row.Time = *patch.Time
		q = q.Column("time")
		touched = true
	}
	if patch.PartySize != nil {
		row.PartySize = *patch.PartySize
		q = q.Column("party_size")
		touched = true
	}
	if patch.Status != nil {
		row.Status = *patch.Status
		q = q.Column("status")
		touched = true
	}
	if patch.SpecialRequests != nil {
		row.SpecialRequests = *patch.SpecialRequests
		q = q.Column("special_requests")
		touched = true
	}
	if !touched {
		return s.GetReservation(ctx, id)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: reservation id=%d", contractx.ErrNotFound, id)
	}
	r := row.toReservation()
	return &r, nil
}

func restaurantRowFrom(r contractx.Restaurant) restaurantRow {
	return restaurantRow{
		Name:        r.Name,
		Cuisine:     r.Cuisine,
		Location:    r.Location,
		Address:     r.Address,
		PriceRange:  r.PriceRange,
		Rating:      r.Rating,
		Capacity:    r.Capacity,
		OpeningTime: r.OpeningTime,
		ClosingTime: r.ClosingTime,
		Features:    r.Features,
		Menu:        r.Menu,
	}
}

func (row restaurantRow) toRestaurant() contractx.Restaurant {
	return contractx.Restaurant{
		ID:          row.ID,
		Name:        row.Name,
		Cuisine:     row.Cuisine,
		Location:    row.Location,
		Address:     row.Address,
		PriceRange:  row.PriceRange,
		Rating:      row.Rating,
		Capacity:    row.Capacity,
		OpeningTime: row.OpeningTime,
		ClosingTime: row.ClosingTime,
		Features:    row.Features,
		Menu:        row.Menu,
		CreatedAt:   row.CreatedAt,
	}
}

func (row userRow) toUser() contractx.User {
	return contractx.User{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		Phone:       row.Phone,
		Preferences: row.Preferences,
		CreatedAt:   row.CreatedAt,
	}
}

func (row reservationRow) toReservation() contractx.Reservation {
	return contractx.Reservation{
		ID:              row.ID,
		RestaurantID:    row.RestaurantID,
		UserID:          row.UserID,
		Date:            row.Date,
		Time:            row.Time,
		PartySize:       row.PartySize,
		Status:          row.Status,
		SpecialRequests: row.SpecialRequests,
		CreatedAt:       row.CreatedAt,
	}
}
