package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/blogsphere/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements all four repositories on MongoDB collections.
// Numeric ids are allocated from a counters collection so the id space
// matches the relational backends; the uniqueness constraints are mirrored
// with unique indexes.
type MongoStore struct {
	users    *mongo.Collection
	posts    *mongo.Collection
	likes    *mongo.Collection
	comments *mongo.Collection
	counters *mongo.Collection
}

// userDocument represents the MongoDB schema for a user
type userDocument struct {
	ID           uint      `bson:"id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	IsAdmin      bool      `bson:"isAdmin"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// postDocument represents the MongoDB schema for a post
type postDocument struct {
	ID        uint      `bson:"id"`
	UserID    uint      `bson:"userId"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Images    []string  `bson:"images,omitempty"`
	Videos    []string  `bson:"videos,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

type likeDocument struct {
	ID        uint      `bson:"id"`
	UserID    uint      `bson:"userId"`
	PostID    uint      `bson:"postId"`
	CreatedAt time.Time `bson:"createdAt"`
}

type commentDocument struct {
	ID        uint      `bson:"id"`
	UserID    uint      `bson:"userId"`
	PostID    uint      `bson:"postId"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
}

// NewMongoStore ensures the unique indexes exist and assembles a Store
// backed by MongoDB.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*Store, error) {
	ms := &MongoStore{
		users:    db.Collection("users"),
		posts:    db.Collection("posts"),
		likes:    db.Collection("likes"),
		comments: db.Collection("comments"),
		counters: db.Collection("counters"),
	}

	unique := options.Index().SetUnique(true)
	_, err := ms.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return nil, apperr.NewStoreUnavailable(err)
	}
	_, err = ms.likes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "postId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return nil, apperr.NewStoreUnavailable(err)
	}

	return &Store{Users: ms, Posts: ms, Likes: ms, Comments: ms}, nil
}

// nextID atomically increments and returns the sequence for one collection.
func (s *MongoStore) nextID(ctx context.Context, name string) (uint, error) {
	var counter struct {
		Seq uint `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, apperr.NewStoreUnavailable(err)
	}
	return counter.Seq, nil
}

func translateMongoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.NewNotFound(what)
	case mongo.IsDuplicateKeyError(err):
		return apperr.NewDuplicateKey(what)
	default:
		return apperr.NewStoreUnavailable(err)
	}
}

// --- users ---

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	id, err := s.nextID(ctx, "users")
	if err != nil {
		return err
	}
	user.ID = id
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	doc := userDocument{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return translateMongoErr(err, "user")
	}
	return nil
}

func (s *MongoStore) findUserDoc(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateMongoErr(err, "user")
	}
	return &models.User{
		ID:           doc.ID,
		Username:     doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		IsAdmin:      doc.IsAdmin,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findUserDoc(ctx, bson.M{"id": id})
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUserDoc(ctx, bson.M{"username": username})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUserDoc(ctx, bson.M{"email": email})
}

func (s *MongoStore) GetUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, translateMongoErr(err, "users")
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoErr(err, "users")
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, models.User{
			ID:           doc.ID,
			Username:     doc.Username,
			Email:        doc.Email,
			PasswordHash: doc.PasswordHash,
			IsAdmin:      doc.IsAdmin,
			CreatedAt:    doc.CreatedAt,
		})
	}
	return users, nil
}

func (s *MongoStore) CountUsers(ctx context.Context) (int64, error) {
	count, err := s.users.CountDocuments(ctx, bson.D{})
	return count, translateMongoErr(err, "users")
}

// --- posts ---

func (s *MongoStore) CreatePost(ctx context.Context, post *models.Post) error {
	id, err := s.nextID(ctx, "posts")
	if err != nil {
		return err
	}
	post.ID = id
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	doc := postDocument{
		ID:        post.ID,
		UserID:    post.UserID,
		Title:     post.Title,
		Content:   post.Content,
		Images:    post.Images,
		Videos:    post.Videos,
		CreatedAt: post.CreatedAt,
	}
	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return translateMongoErr(err, "post")
	}
	return nil
}

func postFromDoc(doc postDocument) models.Post {
	return models.Post{
		ID:        doc.ID,
		UserID:    doc.UserID,
		Title:     doc.Title,
		Content:   doc.Content,
		Images:    doc.Images,
		Videos:    doc.Videos,
		CreatedAt: doc.CreatedAt,
	}
}

func (s *MongoStore) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var doc postDocument
	if err := s.posts.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		return nil, translateMongoErr(err, "post")
	}
	post := postFromDoc(doc)
	return &post, nil
}

func (s *MongoStore) findPosts(ctx context.Context, filter bson.M) ([]models.Post, error) {
	sortNewestFirst := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "id", Value: -1},
	})
	cursor, err := s.posts.Find(ctx, filter, sortNewestFirst)
	if err != nil {
		return nil, translateMongoErr(err, "posts")
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoErr(err, "posts")
	}
	posts := make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, postFromDoc(doc))
	}
	return posts, nil
}

func (s *MongoStore) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return s.findPosts(ctx, bson.M{})
}

func (s *MongoStore) GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.findPosts(ctx, bson.M{"userId": userID})
}

func (s *MongoStore) CountPosts(ctx context.Context) (int64, error) {
	count, err := s.posts.CountDocuments(ctx, bson.D{})
	return count, translateMongoErr(err, "posts")
}

// DeletePostWithDependents deletes likes, then comments, then the post.
// Multi-document transactions need a replica set, so this backend deletes
// sequentially; a fault partway leaves the documented orphan-safe state.
func (s *MongoStore) DeletePostWithDependents(ctx context.Context, id uint) error {
	if err := s.posts.FindOne(ctx, bson.M{"id": id}).Err(); err != nil {
		return translateMongoErr(err, "post")
	}
	if _, err := s.likes.DeleteMany(ctx, bson.M{"postId": id}); err != nil {
		return translateMongoErr(err, "likes")
	}
	if _, err := s.comments.DeleteMany(ctx, bson.M{"postId": id}); err != nil {
		return translateMongoErr(err, "comments")
	}
	if _, err := s.posts.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return translateMongoErr(err, "post")
	}
	return nil
}

// --- likes ---

// ToggleLike deletes the like when present, otherwise inserts one. The
// unique compound index serializes racing inserts; losing the race means
// the pair is liked, so the loser reports liked as well.
func (s *MongoStore) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	filter := bson.M{"userId": userID, "postId": postID}
	res, err := s.likes.DeleteOne(ctx, filter)
	if err != nil {
		return false, translateMongoErr(err, "like")
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	id, err := s.nextID(ctx, "likes")
	if err != nil {
		return false, err
	}
	doc := likeDocument{ID: id, UserID: userID, PostID: postID, CreatedAt: time.Now().UTC()}
	if _, err := s.likes.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, translateMongoErr(err, "like")
	}
	return true, nil
}

func (s *MongoStore) GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error) {
	count, err := s.likes.CountDocuments(ctx, bson.M{"postId": postID})
	return count, translateMongoErr(err, "likes")
}

func (s *MongoStore) HasUserLikedPost(ctx context.Context, userID, postID uint) (bool, error) {
	count, err := s.likes.CountDocuments(ctx, bson.M{"userId": userID, "postId": postID})
	if err != nil {
		return false, translateMongoErr(err, "likes")
	}
	return count > 0, nil
}

// --- comments ---

func (s *MongoStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	id, err := s.nextID(ctx, "comments")
	if err != nil {
		return err
	}
	comment.ID = id
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	doc := commentDocument{
		ID:        comment.ID,
		UserID:    comment.UserID,
		PostID:    comment.PostID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if _, err := s.comments.InsertOne(ctx, doc); err != nil {
		return translateMongoErr(err, "comment")
	}
	return nil
}

func (s *MongoStore) GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	sortOldestFirst := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: 1},
		{Key: "id", Value: 1},
	})
	cursor, err := s.comments.Find(ctx, bson.M{"postId": postID}, sortOldestFirst)
	if err != nil {
		return nil, translateMongoErr(err, "comments")
	}
	defer cursor.Close(ctx)

	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoErr(err, "comments")
	}
	comments := make([]models.Comment, 0, len(docs))
	for _, doc := range docs {
		comments = append(comments, models.Comment{
			ID:        doc.ID,
			UserID:    doc.UserID,
			PostID:    doc.PostID,
			Content:   doc.Content,
			CreatedAt: doc.CreatedAt,
		})
	}
	return comments, nil
}

func (s *MongoStore) GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error) {
	count, err := s.comments.CountDocuments(ctx, bson.M{"postId": postID})
	return count, translateMongoErr(err, "comments")
}
