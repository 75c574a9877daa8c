package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Eordinary01/View-Assignment/core/assignment"
)

type assignmentDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Course     string             `bson:"course"`
	Branch     string             `bson:"branch"`
	Year       string             `bson:"year"`
	Subject    string             `bson:"subject"`
	College    string             `bson:"college"`
	FileName   string             `bson:"file_name"`
	UploadedBy string             `bson:"uploaded_by"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func newAssignmentDoc(a assignment.Assignment) (assignmentDoc, error) {
	doc := assignmentDoc{
		Course:     a.Course,
		Branch:     a.Branch,
		Year:       a.Year,
		Subject:    a.Subject,
		College:    a.College,
		FileName:   a.FileName,
		UploadedBy: a.UploadedBy,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.ID != "" {
		oid, err := primitive.ObjectIDFromHex(a.ID)
		if err != nil {
			return assignmentDoc{}, assignment.ErrNotFound
		}
		doc.ID = oid
	}
	return doc, nil
}

func (doc assignmentDoc) toAssignment() assignment.Assignment {
	return assignment.Assignment{
		ID:         doc.ID.Hex(),
		Course:     doc.Course,
		Branch:     doc.Branch,
		Year:       doc.Year,
		Subject:    doc.Subject,
		College:    doc.College,
		FileName:   doc.FileName,
		UploadedBy: doc.UploadedBy,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

type assignmentRepository struct {
	coll *mongo.Collection
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *mongo.Database) assignment.Repository {
	return &assignmentRepository{coll: db.Collection(assignmentCollection)}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	doc, err := newAssignmentDoc(a)
	if err != nil {
		return assignment.Assignment{}, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err = repo.coll.InsertOne(ctx, doc); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return doc.toAssignment(), nil
}

func (repo *assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	return repo.query(ctx, bson.M{})
}

func (repo *assignmentRepository) QueryAssignmentsByCollege(ctx context.Context, college string) ([]assignment.Assignment, error) {
	return repo.query(ctx, bson.M{"college": college})
}

// query returns matches in natural insertion (_id) order.
func (repo *assignmentRepository) query(ctx context.Context, filter bson.M) ([]assignment.Assignment, error) {
	cur, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}

	var docs []assignmentDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding assignments")
	}

	assignments := make([]assignment.Assignment, 0, len(docs))
	for _, doc := range docs {
		assignments = append(assignments, doc.toAssignment())
	}
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return assignment.Assignment{}, assignment.ErrNotFound
	}

	var doc assignmentDoc
	if err = repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "finding assignment by id")
	}
	return doc.toAssignment(), nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	doc, err := newAssignmentDoc(a)
	if err != nil {
		return assignment.Assignment{}, err
	}

	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"course":     doc.Course,
		"branch":     doc.Branch,
		"year":       doc.Year,
		"subject":    doc.Subject,
		"college":    doc.College,
		"updated_at": doc.UpdatedAt,
	}})
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if res.MatchedCount == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return assignment.ErrNotFound
	}

	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if res.DeletedCount == 0 {
		return assignment.ErrNotFound
	}
	return nil
}
