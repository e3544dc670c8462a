package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const attendancesCollection = "attendances"

type attendanceDocument struct {
	ID           any       `bson:"_id"`
	EmployeeID   string    `bson:"employeeId"`
	EmployeeName string    `bson:"employeeName,omitempty"`
	Date         string    `bson:"date"`
	Status       string    `bson:"status"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type mongoRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		col: db.Collection(attendancesCollection),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// EnsureMongoIndexes creates the unique (employeeId, date) index the upsert
// relies on, plus the date lookup index.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(attendancesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employeeId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("ux_attendances_employee_date"),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	})
	return err
}

func (r *mongoRepository) WithTx(*sql.Tx) Repository {
	return r
}

func (r *mongoRepository) Upsert(ctx context.Context, a *Attendance) (*Attendance, error) {
	doc, err := r.upsertOnce(ctx, a)
	// Two concurrent upserts of a new key can both try the insert; the
	// loser hits the unique index and retries as an update.
	if mongo.IsDuplicateKeyError(err) {
		doc, err = r.upsertOnce(ctx, a)
	}
	if err != nil {
		return nil, err
	}
	row := fromDocument(doc)
	return &row, nil
}

func (r *mongoRepository) upsertOnce(ctx context.Context, a *Attendance) (attendanceDocument, error) {
	now := r.now()
	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	filter := bson.M{"employeeId": a.EmployeeID, "date": a.Date}
	setOnInsert := bson.M{"_id": id.String(), "createdAt": now}
	if a.EmployeeName != "" {
		setOnInsert["employeeName"] = a.EmployeeName
	}
	update := bson.M{
		"$set":         bson.M{"status": a.Status, "updatedAt": now},
		"$setOnInsert": setOnInsert,
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc attendanceDocument
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	return doc, err
}

func (r *mongoRepository) FindByDate(ctx context.Context, date string) ([]Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"date": date}, opts)
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]Attendance, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []attendanceDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	rows := make([]Attendance, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, fromDocument(d))
	}
	return rows, nil
}

func fromDocument(d attendanceDocument) Attendance {
	id := surrogateID(d.ID)
	return Attendance{
		ID:           id,
		EmployeeID:   d.EmployeeID,
		EmployeeName: d.EmployeeName,
		Date:         d.Date,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// surrogateID reads a uuid string _id. Documents inserted elsewhere usually
// carry a primitive.ObjectID or another type; those leave the id zero.
func surrogateID(v any) uuid.UUID {
	s, ok := v.(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
