package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/timetracer/timetracer-api/internal/core/domain"
	"github.com/timetracer/timetracer-api/internal/core/ports"
)

const collectionTimeEntries = "time_entries"

type TimeEntryRepository struct {
	col *mongo.Collection
}

func NewTimeEntryRepository(db *mongo.Database) *TimeEntryRepository {
	return &TimeEntryRepository{col: db.Collection(collectionTimeEntries)}
}

// Timestamps are persisted as the verbatim wall-clock strings the caller
// submitted; an open entry stores an explicit null check_out, which is what
// the partial unique index matches on.
type mongoTimeEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	Date       string             `bson:"date"`
	CheckIn    string             `bson:"check_in"`
	CheckOut   *string            `bson:"check_out"`
	TotalHours *float64           `bson:"total_hours"`
	Notes      *string            `bson:"notes"`
	CreatedAt  int64              `bson:"created_at"`
}

func (me mongoTimeEntry) toDomain() (*domain.TimeEntry, error) {
	checkIn, err := domain.ParseWallClock(me.CheckIn)
	if err != nil {
		return nil, storeErr("decode check_in", err)
	}
	entry := &domain.TimeEntry{
		ID:         me.ID.Hex(),
		UserID:     me.UserID,
		Date:       me.Date,
		CheckIn:    checkIn,
		TotalHours: me.TotalHours,
		Notes:      me.Notes,
		CreatedAt:  unixToTime(me.CreatedAt),
	}
	if me.CheckOut != nil {
		checkOut, err := domain.ParseWallClock(*me.CheckOut)
		if err != nil {
			return nil, storeErr("decode check_out", err)
		}
		entry.CheckOut = &checkOut
	}
	return entry, nil
}

func toDoc(e *domain.TimeEntry) mongoTimeEntry {
	doc := mongoTimeEntry{
		UserID:     e.UserID,
		Date:       e.Date,
		CheckIn:    e.CheckIn.String(),
		TotalHours: e.TotalHours,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt.Unix(),
	}
	if e.CheckOut != nil {
		s := e.CheckOut.String()
		doc.CheckOut = &s
	}
	return doc
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toDoc(entry))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrOpenEntryExists
		}
		return nil, storeErr("insert time entry", err)
	}

	created := *entry
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TimeEntryRepository) FindByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEntryNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *TimeEntryRepository) FindOpenByUser(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "check_out": nil})
}

func (r *TimeEntryRepository) FindOpenByUserAndDate(ctx context.Context, userID, date string) (*domain.TimeEntry, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "date": date, "check_out": nil})
}

func (r *TimeEntryRepository) findOne(ctx context.Context, filter bson.M) (*domain.TimeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoTimeEntry
	if err := r.col.FindOne(ctx, filter).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, storeErr("find time entry", err)
	}
	return me.toDomain()
}

func (r *TimeEntryRepository) List(ctx context.Context, filter ports.EntryFilter) ([]*domain.TimeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if len(filter.UserIDs) > 0 {
		query["user_id"] = bson.M{"$in": filter.UserIDs}
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "created_at", Value: -1},
	}))
	if err != nil {
		return nil, storeErr("list time entries", err)
	}
	defer cur.Close(ctx)

	entries := []*domain.TimeEntry{}
	for cur.Next(ctx) {
		var me mongoTimeEntry
		if err := cur.Decode(&me); err != nil {
			return nil, storeErr("decode time entry", err)
		}
		entry, err := me.toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("list time entries", err)
	}
	return entries, nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, id string, patch ports.EntryPatch) (*domain.TimeEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.CheckIn != nil {
		set["check_in"] = patch.CheckIn.String()
	}
	if patch.CheckOut.Set {
		if patch.CheckOut.Value != nil {
			set["check_out"] = patch.CheckOut.Value.String()
		} else {
			// Reopen: an explicit null keeps the field inside the partial
			// unique index's filter.
			set["check_out"] = nil
		}
	}
	if patch.TotalHours != nil {
		set["total_hours"] = *patch.TotalHours
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var me mongoTimeEntry
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&me)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrOpenEntryExists
		}
		return nil, storeErr("update time entry", err)
	}
	return me.toDomain()
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeErr("delete time entry", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// EnsureIndexes creates the time-entry indexes. The partial unique index on
// user_id restricted to null check_out is the store-level guarantee that a
// user has at most one open entry, closing the check-then-act race between
// concurrent submissions.
func (r *TimeEntryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"check_out": bson.M{"$type": "null"}}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
