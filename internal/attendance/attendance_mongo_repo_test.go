package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const attendancesNS = "mtest.attendances"

func attendanceDoc(id any, employeeID, name, date, status string, at time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "employeeId", Value: employeeID},
		{Key: "employeeName", Value: name},
		{Key: "date", Value: date},
		{Key: "status", Value: status},
		{Key: "createdAt", Value: at},
		{Key: "updatedAt", Value: at},
	}
}

func upsertReply(doc bson.D) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "lastErrorObject", Value: bson.D{{Key: "n", Value: 1}, {Key: "updatedExisting", Value: true}}},
		bson.E{Key: "value", Value: doc},
	)
}

func duplicateKeyReply() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{
		Code:    11000,
		Name:    "DuplicateKey",
		Message: "E11000 duplicate key error collection: mtest.attendances index: ux_attendances_employee_date",
	})
}

func TestMongoRepository_Upsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	fixed := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	mt.Run("only status changes on an existing key", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB).(*mongoRepository)
		repo.now = func() time.Time { return fixed }
		existingID := uuid.New()
		mt.AddMockResponses(upsertReply(attendanceDoc(existingID.String(), "E1", "Ann", "2024-03-04", "absent", fixed)))

		got, err := repo.Upsert(context.Background(), &Attendance{
			EmployeeID:   "E1",
			EmployeeName: "Someone Else",
			Date:         "2024-03-04",
			Status:       "absent",
		})

		require.NoError(mt, err)
		assert.Equal(mt, existingID, got.ID)
		assert.Equal(mt, "Ann", got.EmployeeName)
		assert.Equal(mt, "absent", got.Status)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "findAndModify", evt.CommandName)
		assert.True(mt, evt.Command.Lookup("upsert").Boolean())
		assert.True(mt, evt.Command.Lookup("new").Boolean())

		query := evt.Command.Lookup("query").Document()
		assert.Equal(mt, "E1", query.Lookup("employeeId").StringValue())
		assert.Equal(mt, "2024-03-04", query.Lookup("date").StringValue())

		update := evt.Command.Lookup("update").Document()
		set := update.Lookup("$set").Document()
		assert.Equal(mt, "absent", set.Lookup("status").StringValue())
		_, err = set.LookupErr("employeeName")
		assert.Error(mt, err)
		onInsert := update.Lookup("$setOnInsert").Document()
		assert.Equal(mt, "Someone Else", onInsert.Lookup("employeeName").StringValue())
		assert.NotEmpty(mt, onInsert.Lookup("_id").StringValue())
	})

	mt.Run("empty employeeName is not written on insert", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(upsertReply(attendanceDoc(uuid.NewString(), "E1", "", "2024-03-04", "present", fixed)))

		_, err := repo.Upsert(context.Background(), &Attendance{EmployeeID: "E1", Date: "2024-03-04", Status: "present"})

		require.NoError(mt, err)
		update := mt.GetStartedEvent().Command.Lookup("update").Document()
		_, err = update.Lookup("$setOnInsert").Document().LookupErr("employeeName")
		assert.Error(mt, err)
	})

	mt.Run("duplicate key on a racing insert retries as update", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		winnerID := uuid.New()
		mt.AddMockResponses(
			duplicateKeyReply(),
			upsertReply(attendanceDoc(winnerID.String(), "E1", "Ann", "2024-03-04", "halfday", fixed)),
		)

		got, err := repo.Upsert(context.Background(), &Attendance{EmployeeID: "E1", Date: "2024-03-04", Status: "halfday"})

		require.NoError(mt, err)
		assert.Equal(mt, winnerID, got.ID)
		assert.Equal(mt, "halfday", got.Status)
	})

	mt.Run("second duplicate key is returned", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(duplicateKeyReply(), duplicateKeyReply())

		got, err := repo.Upsert(context.Background(), &Attendance{EmployeeID: "E1", Date: "2024-03-04", Status: "present"})

		assert.Nil(mt, got)
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})
}

func TestMongoRepository_FindByDate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matches the date string verbatim", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		at := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, attendancesNS, mtest.FirstBatch,
			attendanceDoc(uuid.NewString(), "E1", "Ann", "2024-03-04", "present", at),
			attendanceDoc(uuid.NewString(), "E2", "Bob", "2024-03-04", "absent", at.Add(time.Minute)),
		))

		rows, err := repo.FindByDate(context.Background(), "2024-03-04")

		require.NoError(mt, err)
		require.Len(mt, rows, 2)
		assert.Equal(mt, "E2", rows[1].EmployeeID)
		assert.Equal(mt, StatusAbsent, rows[1].ParsedStatus())

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		assert.Equal(mt, "2024-03-04", filter.Lookup("date").StringValue())
	})
}

func TestMongoRepository_FindAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("oldest first", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, attendancesNS, mtest.FirstBatch))

		rows, err := repo.FindAll(context.Background())

		require.NoError(mt, err)
		assert.NotNil(mt, rows)
		sort := mt.GetStartedEvent().Command.Lookup("sort").Document()
		assert.Equal(mt, int64(1), sort.Lookup("createdAt").AsInt64())
	})
}
