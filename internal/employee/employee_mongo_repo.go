package employee

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const employeesCollection = "employees"

type employeeDocument struct {
	ID             any       `bson:"_id"`
	EmployeeID     string    `bson:"employeeId"`
	EmployeeName   string    `bson:"employeeName"`
	Designation    string    `bson:"designation"`
	Department     string    `bson:"department"`
	Salary         float64   `bson:"salary"`
	JoiningDate    time.Time `bson:"joiningDate"`
	DateOfBirth    string    `bson:"dateOfBirth"`
	ActiveEmployee bool      `bson:"activeEmployee"`
	PhoneNumber    string    `bson:"phoneNumber"`
	Address        string    `bson:"address"`
	CreatedAt      time.Time `bson:"createdAt"`
}

type mongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{col: db.Collection(employeesCollection)}
}

// EnsureMongoIndexes creates the lookup index used by the summary join. It
// is intentionally not unique.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(employeesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employeeId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

// WithTx is a no-op; the document store has no SQL transaction to join.
func (r *mongoRepository) WithTx(*sql.Tx) Repository {
	return r
}

func (r *mongoRepository) Create(ctx context.Context, empl *Employee) error {
	_, err := r.col.InsertOne(ctx, toDocument(*empl))
	return err
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoRepository) FindByEmployeeIDs(ctx context.Context, ids []string) ([]Employee, error) {
	if len(ids) == 0 {
		return []Employee{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"employeeId": bson.M{"$in": ids}}, opts)
}

func (r *mongoRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]Employee, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []employeeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	rows := make([]Employee, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, fromDocument(d))
	}
	return rows, nil
}

func toDocument(e Employee) employeeDocument {
	return employeeDocument{
		ID:             e.ID.String(),
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		Designation:    e.Designation,
		Department:     e.Department,
		Salary:         e.Salary,
		JoiningDate:    e.JoiningDate,
		DateOfBirth:    e.DateOfBirth,
		ActiveEmployee: e.ActiveEmployee,
		PhoneNumber:    e.PhoneNumber,
		Address:        e.Address,
		CreatedAt:      e.CreatedAt,
	}
}

func fromDocument(d employeeDocument) Employee {
	id := surrogateID(d.ID)
	return Employee{
		ID:             id,
		EmployeeID:     d.EmployeeID,
		EmployeeName:   d.EmployeeName,
		Designation:    d.Designation,
		Department:     d.Department,
		Salary:         d.Salary,
		JoiningDate:    d.JoiningDate,
		DateOfBirth:    d.DateOfBirth,
		ActiveEmployee: d.ActiveEmployee,
		PhoneNumber:    d.PhoneNumber,
		Address:        d.Address,
		CreatedAt:      d.CreatedAt,
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
