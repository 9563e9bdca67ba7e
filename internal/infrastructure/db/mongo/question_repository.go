package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mntc/quiz-server/internal/core/domain"
)

const collectionQuestions = "questions"

// QuestionRepository reads the seeded questions collection.
type QuestionRepository struct {
	col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{col: db.Collection(collectionQuestions)}
}

type mongoQuestion struct {
	Number int    `bson:"number"`
	Text   string `bson:"text"`
	Answer string `bson:"answer"`
}

func (r *QuestionRepository) FindByNumber(ctx context.Context, number int) (*domain.Question, error) {
	return r.findOne(ctx, bson.M{"number": number})
}

func (r *QuestionRepository) FindByNumberAndAnswer(ctx context.Context, number int, answer string) (*domain.Question, error) {
	return r.findOne(ctx, bson.M{"number": number, "answer": answer})
}

func (r *QuestionRepository) findOne(ctx context.Context, filter bson.M) (*domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mq mongoQuestion
	if err := r.col.FindOne(ctx, filter).Decode(&mq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &domain.Question{Number: mq.Number, Text: mq.Text, Answer: mq.Answer}, nil
}

func (r *QuestionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "number", Value: 1}},
	})
	return err
}
