// internal/storage/mongodb/mongodb.go
package mongodb

import (
	"context"
	"fmt"
	"time"

	"savings-tracker/internal/domain"
	"savings-tracker/internal/storage"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	SavingCollection = "savings"
	BadgeCollection  = "badges"
)

type Storage struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

var _ storage.Storage = (*Storage)(nil)

// Connect opens a client, pings it and makes sure the indexes exist.
func Connect(ctx context.Context, uri, database string, log *zap.Logger) (*Storage, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Storage{client: client, db: client.Database(database), log: log}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info("connected to MongoDB", zap.String("database", database))
	return s, nil
}

func (s *Storage) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		s.log.Error("failed to disconnect from MongoDB", zap.Error(err))
		return
	}
	s.log.Info("disconnected from MongoDB")
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(SavingCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create savings index: %w", err)
	}
	_, err = s.db.Collection(BadgeCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "type", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create badges index: %w", err)
	}
	return nil
}

type savingDoc struct {
	ID        bson.ObjectID   `bson:"_id"`
	UserID    int64           `bson:"user_id"`
	Amount    bson.Decimal128 `bson:"amount"`
	Category  string          `bson:"category"`
	Date      time.Time       `bson:"date"`
	CreatedAt time.Time       `bson:"created_at"`
}

type badgeDoc struct {
	ID          bson.ObjectID `bson:"_id"`
	UserID      int64         `bson:"user_id"`
	Type        string        `bson:"type"`
	Name        string        `bson:"name"`
	Description string        `bson:"description,omitempty"`
	Icon        string        `bson:"icon,omitempty"`
	EarnedDate  time.Time     `bson:"earned_date"`
}

func toSavingDoc(e domain.SavingEntry) (savingDoc, error) {
	amount, err := bson.ParseDecimal128(e.Amount.String())
	if err != nil {
		return savingDoc{}, fmt.Errorf("encode amount %s: %w", e.Amount, err)
	}
	return savingDoc{
		ID:        bson.NewObjectID(),
		UserID:    e.UserID,
		Amount:    amount,
		Category:  e.Category,
		Date:      e.Date,
		CreatedAt: time.Now(),
	}, nil
}

func (d savingDoc) toDomain() (domain.SavingEntry, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return domain.SavingEntry{}, fmt.Errorf("decode amount of saving %s: %w", d.ID.Hex(), err)
	}
	return domain.SavingEntry{
		ID:       d.ID.Hex(),
		UserID:   d.UserID,
		Amount:   amount,
		Category: d.Category,
		Date:     d.Date,
	}, nil
}

func toBadgeDoc(b domain.Badge) badgeDoc {
	return badgeDoc{
		ID:          bson.NewObjectID(),
		UserID:      b.UserID,
		Type:        string(b.Type),
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		EarnedDate:  b.EarnedDate,
	}
}

func (d badgeDoc) toDomain() domain.Badge {
	return domain.Badge{
		ID:     d.ID.Hex(),
		UserID: d.UserID,
		BadgeDescriptor: domain.BadgeDescriptor{
			Type:        domain.BadgeType(d.Type),
			Name:        d.Name,
			Description: d.Description,
			Icon:        d.Icon,
		},
		EarnedDate: d.EarnedDate,
	}
}

// === SavingStorage ===

func (s *Storage) InsertSaving(ctx context.Context, entry domain.SavingEntry) (domain.SavingEntry, error) {
	// BSON dates carry milliseconds only
	entry.Date = entry.Date.Truncate(time.Millisecond)
	doc, err := toSavingDoc(entry)
	if err != nil {
		return domain.SavingEntry{}, err
	}
	if _, err := s.db.Collection(SavingCollection).InsertOne(ctx, doc); err != nil {
		return domain.SavingEntry{}, fmt.Errorf("insert saving: %w", err)
	}
	entry.ID = doc.ID.Hex()
	return entry, nil
}

func (s *Storage) ListSavings(ctx context.Context, userID int64) ([]domain.SavingEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.db.Collection(SavingCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find savings: %w", err)
	}
	defer cursor.Close(ctx)

	out := []domain.SavingEntry{}
	for cursor.Next(ctx) {
		var doc savingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode saving: %w", err)
		}
		e, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("savings cursor: %w", err)
	}
	return out, nil
}

// === BadgeStorage ===

func (s *Storage) InsertBadges(ctx context.Context, badges []domain.Badge) ([]domain.Badge, error) {
	coll := s.db.Collection(BadgeCollection)
	inserted := make([]domain.Badge, 0, len(badges))
	for _, b := range badges {
		b.EarnedDate = b.EarnedDate.Truncate(time.Millisecond)
		doc := toBadgeDoc(b)
		if _, err := coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				s.log.Debug("badge already awarded",
					zap.Int64("user_id", b.UserID),
					zap.String("type", string(b.Type)))
				continue
			}
			return inserted, fmt.Errorf("insert badge %s: %w", b.Type, err)
		}
		b.ID = doc.ID.Hex()
		inserted = append(inserted, b)
	}
	return inserted, nil
}

func (s *Storage) ListBadges(ctx context.Context, userID int64) ([]domain.Badge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "earned_date", Value: -1}})
	cursor, err := s.db.Collection(BadgeCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find badges: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []badgeDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	out := make([]domain.Badge, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
