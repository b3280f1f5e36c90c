package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// RestaurantAdapter implements the RestaurantRepository interface
type RestaurantAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRestaurantAdapter creates a new restaurant adapter
func NewRestaurantAdapter(client *postgres.Client) repositories.RestaurantRepository {
	return &RestaurantAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var restaurantColumns = []interface{}{
	goqu.I("r.restaurant_id"), goqu.I("r.name"), goqu.I("r.address"), goqu.I("r.city"),
	goqu.I("r.region"), goqu.I("r.phone_number"), goqu.I("r.website_url"), goqu.I("r.avg_rating"),
	goqu.I("r.price_range"), goqu.I("r.dining_type"), goqu.I("r.timings"), goqu.I("r.votes"),
	goqu.I("r.rating_type"),
}

// catalogOrder is a total order: avg_rating desc, votes desc, id asc
var catalogOrder = []exp.OrderedExpression{
	goqu.I("r.avg_rating").Desc(),
	goqu.I("r.votes").Desc(),
	goqu.I("r.restaurant_id").Asc(),
}

type catalogPredicates struct {
	city      string
	cuisine   string
	minRating float64
	nameLike  string
	maxPrice  *int
}

// where translates optional filters into placeholder-bound predicates.
// The cuisine filter is an EXISTS subquery so a restaurant with several
// categories still yields one row.
func (p catalogPredicates) where(ds *goqu.SelectDataset) *goqu.SelectDataset {
	if p.city != "" {
		ds = ds.Where(goqu.I("r.city").Eq(p.city))
	}
	if p.minRating > 0 {
		ds = ds.Where(goqu.I("r.avg_rating").Gte(p.minRating))
	}
	if p.nameLike != "" {
		ds = ds.Where(goqu.I("r.name").ILike(containsPattern(p.nameLike)))
	}
	if p.maxPrice != nil {
		ds = ds.Where(goqu.I("r.price_range").Lte(*p.maxPrice))
	}
	if p.cuisine != "" {
		ds = ds.Where(goqu.L(
			`EXISTS (SELECT 1 FROM "restaurant_categories" AS "rc" `+
				`INNER JOIN "categories" AS "c" ON ("c"."category_id" = "rc"."category_id") `+
				`WHERE "rc"."restaurant_id" = "r"."restaurant_id" AND "c"."category_name" = ?)`,
			p.cuisine,
		))
	}
	return ds
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRestaurant(row rowScanner) (*entities.Restaurant, error) {
	restaurant := &entities.Restaurant{}
	var address, city, region, phone, website, diningType, timings, ratingType sql.NullString
	var priceRange sql.NullInt64

	err := row.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&address,
		&city,
		&region,
		&phone,
		&website,
		&restaurant.AvgRating,
		&priceRange,
		&diningType,
		&timings,
		&restaurant.Votes,
		&ratingType,
	)
	if err != nil {
		return nil, err
	}

	restaurant.Address = address.String
	restaurant.City = city.String
	restaurant.Region = region.String
	restaurant.PhoneNumber = phone.String
	restaurant.WebsiteURL = website.String
	restaurant.PriceRange = int(priceRange.Int64)
	restaurant.DiningType = diningType.String
	restaurant.Timings = timings.String
	restaurant.RatingType = ratingType.String
	restaurant.Cuisines = []string{}

	return restaurant, nil
}

// GetByID retrieves a restaurant by ID
func (a *RestaurantAdapter) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "restaurants.get", time.Now())

	query, args, err := a.db.From(goqu.T("restaurants").As("r")).
		Select(restaurantColumns...).
		Where(goqu.I("r.restaurant_id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build restaurant query", err)
	}

	restaurant, err := scanRestaurant(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant %s not found", id))
	}
	if err != nil {
		return nil, storageError(ctx, "failed to get restaurant", err)
	}

	return restaurant, nil
}

// List retrieves one ordered window of restaurants matching the filter
func (a *RestaurantAdapter) List(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "restaurants.list", time.Now())

	query, args, err := a.listQuery(filter)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to list restaurants", err)
	}
	defer rows.Close()

	restaurants := []*entities.Restaurant{}
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, storageError(ctx, "failed to scan restaurant", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate restaurants", err)
	}

	return restaurants, nil
}

func (a *RestaurantAdapter) listQuery(filter repositories.RestaurantFilter) (string, []interface{}, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repositories.DefaultListLimit
	}

	ds := catalogPredicates{
		city:      filter.City,
		cuisine:   filter.Cuisine,
		minRating: filter.MinRating,
		nameLike:  filter.Search,
	}.where(a.db.From(goqu.T("restaurants").As("r")).Select(restaurantColumns...))

	ds = ds.Order(catalogOrder...).Limit(uint(limit))
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	return ds.Prepared(true).ToSQL()
}

// Search retrieves at most SearchResultCap restaurants in listing order
func (a *RestaurantAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.RestaurantSummary, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "restaurants.search", time.Now())

	ds := catalogPredicates{
		city:      params.City,
		cuisine:   params.Cuisine,
		minRating: params.MinRating,
		nameLike:  params.Query,
		maxPrice:  params.MaxPrice,
	}.where(a.db.From(goqu.T("restaurants").As("r")).Select(
		goqu.I("r.restaurant_id"), goqu.I("r.name"), goqu.I("r.city"), goqu.I("r.avg_rating"),
		goqu.I("r.price_range"), goqu.I("r.votes"), goqu.I("r.dining_type"),
	))

	query, args, err := ds.Order(catalogOrder...).
		Limit(repositories.SearchResultCap).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to search restaurants", err)
	}
	defer rows.Close()

	results := []*entities.RestaurantSummary{}
	for rows.Next() {
		summary := &entities.RestaurantSummary{}
		var city, diningType sql.NullString
		var priceRange sql.NullInt64

		if err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&city,
			&summary.AvgRating,
			&priceRange,
			&summary.Votes,
			&diningType,
		); err != nil {
			return nil, storageError(ctx, "failed to scan search result", err)
		}

		summary.City = city.String
		summary.PriceRange = int(priceRange.Int64)
		summary.DiningType = diningType.String
		results = append(results, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate search results", err)
	}

	return results, nil
}

// CuisinesByRestaurantIDs returns the sorted cuisine names of each restaurant
func (a *RestaurantAdapter) CuisinesByRestaurantIDs(ctx context.Context, ids []string) (map[string][]string, error) {
	cuisines := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return cuisines, nil
	}

	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "restaurants.cuisines", time.Now())

	query, args, err := a.db.From(goqu.T("restaurant_categories").As("rc")).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.I("c.category_id").Eq(goqu.I("rc.category_id")))).
		Select(goqu.I("rc.restaurant_id"), goqu.I("c.category_name")).
		Where(goqu.I("rc.restaurant_id").In(ids)).
		Order(goqu.I("rc.restaurant_id").Asc(), goqu.I("c.category_name").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build cuisines query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to load cuisines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var restaurantID, name string
		if err := rows.Scan(&restaurantID, &name); err != nil {
			return nil, storageError(ctx, "failed to scan cuisine", err)
		}
		cuisines[restaurantID] = append(cuisines[restaurantID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate cuisines", err)
	}

	return cuisines, nil
}

// ListCities counts restaurants per city, ordered by city
func (a *RestaurantAdapter) ListCities(ctx context.Context) ([]*entities.CityCount, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "restaurants.cities", time.Now())

	query, args, err := a.db.From("restaurants").
		Select(goqu.C("city"), goqu.COUNT("*").As("count")).
		Where(goqu.C("city").IsNotNull()).
		GroupBy(goqu.C("city")).
		Order(goqu.C("city").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build cities query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to list cities", err)
	}
	defer rows.Close()

	cities := []*entities.CityCount{}
	for rows.Next() {
		city := &entities.CityCount{}
		if err := rows.Scan(&city.City, &city.Count); err != nil {
			return nil, storageError(ctx, "failed to scan city", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate cities", err)
	}

	return cities, nil
}

// ListCategories counts restaurants per category, ordered by name
func (a *RestaurantAdapter) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "restaurants.categories", time.Now())

	query, args, err := a.db.From(goqu.T("categories").As("c")).
		LeftJoin(goqu.T("restaurant_categories").As("rc"), goqu.On(goqu.I("rc.category_id").Eq(goqu.I("c.category_id")))).
		Select(goqu.I("c.category_id"), goqu.I("c.category_name"), goqu.COUNT(goqu.I("rc.restaurant_id")).As("count")).
		GroupBy(goqu.I("c.category_id"), goqu.I("c.category_name")).
		Order(goqu.I("c.category_name").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build categories query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to list categories", err)
	}
	defer rows.Close()

	categories := []*entities.Category{}
	for rows.Next() {
		category := &entities.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Count); err != nil {
			return nil, storageError(ctx, "failed to scan category", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate categories", err)
	}

	return categories, nil
}
