package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"churchdir/internal/db"
	"churchdir/internal/logger"
	"churchdir/internal/models"
	"churchdir/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type accountDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	Nickname        string             `bson:"nickname"`
	Role            string             `bson:"role"`
	Mobile          string             `bson:"mobile"`
	AlternateMobile string             `bson:"alternateMobile"`
	Address         string             `bson:"address"`
	Spouse          string             `bson:"spouse"`
	Children        []string           `bson:"children"`
	NativePlace     string             `bson:"nativePlace"`
	Church          string             `bson:"church"`
	Avatar          string             `bson:"avatar"`
	Photos          []string           `bson:"photos"`
	Password        string             `bson:"password"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (d *accountDoc) toModel() *models.Account {
	return &models.Account{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Email:           d.Email,
		Nickname:        d.Nickname,
		Role:            d.Role,
		Mobile:          d.Mobile,
		AlternateMobile: d.AlternateMobile,
		Address:         d.Address,
		Spouse:          d.Spouse,
		Children:        d.Children,
		NativePlace:     d.NativePlace,
		Church:          d.Church,
		Avatar:          d.Avatar,
		Photos:          d.Photos,
		PasswordHash:    d.Password,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// MongoAccountRepository: то же хранилище аккаунтов поверх коллекции users (DB_DRIVER=mongo).
type MongoAccountRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoAccountRepository(database *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: database.Collection(db.AccountsCollection), now: time.Now}
}

func (r *MongoAccountRepository) Create(ctx context.Context, a *models.Account, plainPassword string) error {
	logger.Log.Info("Создание аккаунта (repo/mongo)", zap.String("email", a.Email))

	hash, err := utils.HashPassword(plainPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if a.Role == "" {
		a.Role = models.RoleUser
	}
	now := r.now().UTC()
	doc := accountDoc{
		ID:              primitive.NewObjectID(),
		Name:            a.Name,
		Email:           a.Email,
		Nickname:        a.Nickname,
		Role:            a.Role,
		Mobile:          a.Mobile,
		AlternateMobile: a.AlternateMobile,
		Address:         a.Address,
		Spouse:          a.Spouse,
		Children:        nonNil(a.Children),
		NativePlace:     a.NativePlace,
		Church:          a.Church,
		Avatar:          a.Avatar,
		Photos:          nonNil(a.Photos),
		Password:        hash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		logger.Log.Error("Ошибка создания аккаунта (repo/mongo)", zap.Error(err))
		return err
	}

	a.ID = doc.ID.Hex()
	a.PasswordHash = hash
	a.CreatedAt, a.UpdatedAt = now, now
	return nil
}

func (r *MongoAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// невалидный hex не может принадлежать ни одному документу
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoAccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		logger.Log.Error("Ошибка получения аккаунтов (repo/mongo)", zap.Error(err))
		return nil, err
	}
	defer cur.Close(ctx)

	var accounts []*models.Account
	for cur.Next(ctx) {
		var d accountDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		accounts = append(accounts, d.toModel())
	}
	return accounts, cur.Err()
}

func (r *MongoAccountRepository) UpdateFields(ctx context.Context, id string, input *models.UpdateAccountRequest) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	current, err := r.findOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	input.Apply(current)

	set := bson.M{
		"name":            current.Name,
		"email":           current.Email,
		"nickname":        current.Nickname,
		"role":            current.Role,
		"mobile":          current.Mobile,
		"alternateMobile": current.AlternateMobile,
		"address":         current.Address,
		"spouse":          current.Spouse,
		"children":        nonNil(current.Children),
		"nativePlace":     current.NativePlace,
		"church":          current.Church,
		"avatar":          current.Avatar,
		"photos":          nonNil(current.Photos),
		"updatedAt":       r.now().UTC(),
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		logger.Log.Error("Ошибка обновления аккаунта (repo/mongo)", zap.Error(err), zap.String("account_id", id))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAccountRepository) UpdatePassword(ctx context.Context, id, plainPassword string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	hash, err := utils.HashPassword(plainPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"password": hash, "updatedAt": r.now().UTC()}})
	if err != nil {
		logger.Log.Error("Ошибка обновления пароля (repo/mongo)", zap.Error(err), zap.String("account_id", id))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAccountRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		logger.Log.Error("Ошибка удаления аккаунта (repo/mongo)", zap.Error(err), zap.String("account_id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAccountRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var d accountDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		logger.Log.Error("Ошибка чтения аккаунта (repo/mongo)", zap.Error(err))
		return nil, err
	}
	return d.toModel(), nil
}
