package handbook

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-mizu/xlite"
	"github.com/go-mizu/xlite/internal/logger"
)

// Order selects the sort direction of name listings.
type Order string

const (
	Asc  Order = "ASC"
	Desc Order = "DESC"
)

// ErrOrder is returned for an Order other than Asc or Desc.
var ErrOrder = errors.New("handbook: order must be ASC or DESC")

// NotFound is the id GetID reports when no row matches.
const NotFound int64 = 0

// Entry is one handbook row.
type Entry struct {
	ID   int64
	Name string
}

func (o Order) validate() error {
	if o != Asc && o != Desc {
		return fmt.Errorf("%w: %q", ErrOrder, string(o))
	}
	return nil
}

// Create creates the table if it does not exist yet.
func Create(ctx context.Context, c xlite.Execer, table string) error {
	q, err := xlite.Format("CREATE TABLE IF NOT EXISTS {}(id INTEGER NOT NULL PRIMARY KEY, name TEXT NOT NULL DEFAULT '');", table)
	if err != nil {
		return err
	}
	logger.Debug("handbook create %s", table)
	return xlite.Exec(ctx, c, q)
}

// GetID returns the id of name, or NotFound.
func GetID(ctx context.Context, p xlite.Preparer, table, name string) (int64, error) {
	q, err := xlite.Format("SELECT id FROM {} WHERE name=? LIMIT 1;", table)
	if err != nil {
		return NotFound, err
	}
	return xlite.Get(ctx, p, NotFound, q, name)
}

// GetName returns the name stored under id, or "".
func GetName(ctx context.Context, p xlite.Preparer, table string, id int64) (string, error) {
	q, err := xlite.Format("SELECT name FROM {} WHERE id=? LIMIT 1;", table)
	if err != nil {
		return "", err
	}
	return xlite.Get(ctx, p, "", q, id)
}

// LookupID is GetID with an explicit found flag.
func LookupID(ctx context.Context, p xlite.Preparer, table, name string) (int64, bool, error) {
	q, err := xlite.Format("SELECT id FROM {} WHERE name=? LIMIT 1;", table)
	if err != nil {
		return 0, false, err
	}
	return xlite.Lookup[int64](ctx, p, q, name)
}

// LookupName is GetName with an explicit found flag, so an empty stored name
// is told apart from a missing row.
func LookupName(ctx context.Context, p xlite.Preparer, table string, id int64) (string, bool, error) {
	q, err := xlite.Format("SELECT name FROM {} WHERE id=? LIMIT 1;", table)
	if err != nil {
		return "", false, err
	}
	return xlite.Lookup[string](ctx, p, q, id)
}

// Insert adds name unconditionally and returns its new id.
func Insert(ctx context.Context, p xlite.Preparer, table, name string) (int64, error) {
	q, err := xlite.Format("INSERT INTO {}(name) VALUES(?);", table)
	if err != nil {
		return 0, err
	}
	res, err := xlite.PrepareBindStep(ctx, p, q, name)
	if err != nil {
		return 0, err
	}
	logger.Debug("handbook %s: inserted %q as %d", table, name, res.LastInsertID)
	return res.LastInsertID, nil
}

// GetIDOrInsert returns the id of name, inserting it first when missing.
// The lookup and the insert are separate statements; see the package
// documentation for the resulting race.
func GetIDOrInsert(ctx context.Context, p xlite.Preparer, table, name string) (int64, error) {
	id, err := GetID(ctx, p, table, name)
	if err != nil {
		return 0, err
	}
	if id > 0 {
		return id, nil
	}
	return Insert(ctx, p, table, name)
}

// GetIDs returns every id, ordered by name ascending like GetList(…, Asc).
func GetIDs(ctx context.Context, p xlite.Preparer, table string) ([]int64, error) {
	q, err := xlite.Format("SELECT id FROM {} ORDER BY name, id;", table)
	if err != nil {
		return nil, err
	}
	return xlite.Query[int64](ctx, p, q)
}

// GetNames returns every name sorted in the given order.
func GetNames(ctx context.Context, p xlite.Preparer, table string, order Order) ([]string, error) {
	if err := order.validate(); err != nil {
		return nil, err
	}
	q, err := xlite.Format("SELECT name FROM {} ORDER BY name {};", table, string(order))
	if err != nil {
		return nil, err
	}
	return xlite.Query[string](ctx, p, q)
}

// GetList returns every entry sorted by name in the given order.
func GetList(ctx context.Context, p xlite.Preparer, table string, order Order) ([]Entry, error) {
	if err := order.validate(); err != nil {
		return nil, err
	}
	q, err := xlite.Format("SELECT id, name FROM {} ORDER BY name {};", table, string(order))
	if err != nil {
		return nil, err
	}
	return xlite.Query[Entry](ctx, p, q)
}
