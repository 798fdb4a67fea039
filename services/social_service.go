package services

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/akinalp/realms/database"
	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
	"github.com/akinalp/realms/repository"
)

// SocialService, bildirim üreten sosyal işlemler: takip, gönderi, yorum,
// beğeni ve realm üyeliği.
//
// Her işlem önce kendi değişikliğini kaydeder, sonra bildirimi üretir.
// Bildirim hatası loglanır ama işlemi başarısız yapmaz; değişiklik zaten
// commit edilmiştir. Kullanıcının kendi içeriğine yaptığı işlemler
// bildirim üretmez.
type SocialService interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error

	CreatePost(ctx context.Context, authorID string, req *models.CreatePostRequest) (*models.Post, error)
	LikePost(ctx context.Context, userID, postID string) error
	UnlikePost(ctx context.Context, userID, postID string) error

	// CreateComment, req.ParentID doluysa yanıt oluşturur.
	CreateComment(ctx context.Context, authorID, postID string, req *models.CreateCommentRequest) (*models.Comment, error)
	LikeComment(ctx context.Context, userID, commentID string) error
	UnlikeComment(ctx context.Context, userID, commentID string) error

	CreateRealm(ctx context.Context, creatorID string, req *models.CreateRealmRequest) (*models.Realm, error)
	JoinRealm(ctx context.Context, userID, realmID string) error
	LeaveRealm(ctx context.Context, userID, realmID string) error
}

type socialService struct {
	db            *sql.DB
	followRepo    repository.FollowRepository
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	realmRepo     repository.RealmRepository
	notifications NotificationService
	log           *zap.Logger
}

// NewSocialService, db CreateRealm'deki transaction için gerekir.
func NewSocialService(
	db *sql.DB,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	realmRepo repository.RealmRepository,
	notifications NotificationService,
	log *zap.Logger,
) SocialService {
	return &socialService{
		db:            db,
		followRepo:    followRepo,
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		realmRepo:     realmRepo,
		notifications: notifications,
		log:           log,
	}
}

func (s *socialService) Follow(ctx context.Context, followerID, followingID string) error {
	if err := s.followRepo.Add(ctx, followerID, followingID); err != nil {
		return err
	}

	s.notify(followingID, followerID, func() (*models.Notification, error) {
		return s.notifications.NotifyUserFollow(ctx, followingID, followerID)
	})
	return nil
}

func (s *socialService) Unfollow(ctx context.Context, followerID, followingID string) error {
	return s.followRepo.Remove(ctx, followerID, followingID)
}

func (s *socialService) CreatePost(ctx context.Context, authorID string, req *models.CreatePostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	post := &models.Post{
		AuthorID: authorID,
		RealmID:  optional(req.RealmID),
		Content:  req.Content,
		ImageURL: optional(req.ImageURL),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *socialService) LikePost(ctx context.Context, userID, postID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.postRepo.AddLike(ctx, postID, userID); err != nil {
		return err
	}

	s.notify(post.AuthorID, userID, func() (*models.Notification, error) {
		return s.notifications.NotifyPostLike(ctx, post.AuthorID, userID, post.ID)
	})
	return nil
}

func (s *socialService) UnlikePost(ctx context.Context, userID, postID string) error {
	return s.postRepo.RemoveLike(ctx, postID, userID)
}

func (s *socialService) CreateComment(ctx context.Context, authorID, postID string, req *models.CreateCommentRequest) (*models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	var parent *models.Comment
	if req.ParentID != "" {
		parent, err = s.commentRepo.GetByID(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != post.ID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", pkg.ErrBadRequest)
		}
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: authorID,
		ParentID: optional(req.ParentID),
		Content:  req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if parent != nil {
		s.notify(parent.AuthorID, authorID, func() (*models.Notification, error) {
			return s.notifications.NotifyCommentReply(ctx, parent.AuthorID, authorID, comment.ID)
		})
	} else {
		s.notify(post.AuthorID, authorID, func() (*models.Notification, error) {
			return s.notifications.NotifyPostComment(ctx, post.AuthorID, authorID, post.ID)
		})
	}
	return comment, nil
}

func (s *socialService) LikeComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.commentRepo.AddLike(ctx, commentID, userID); err != nil {
		return err
	}

	s.notify(comment.AuthorID, userID, func() (*models.Notification, error) {
		return s.notifications.NotifyCommentLike(ctx, comment.AuthorID, userID, comment.ID)
	})
	return nil
}

func (s *socialService) UnlikeComment(ctx context.Context, userID, commentID string) error {
	return s.commentRepo.RemoveLike(ctx, commentID, userID)
}

// CreateRealm, realm'i ve kurucunun üyeliğini tek transaction'da yazar.
func (s *socialService) CreateRealm(ctx context.Context, creatorID string, req *models.CreateRealmRequest) (*models.Realm, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	realm := &models.Realm{
		Name:        req.Name,
		Description: optional(req.Description),
		CreatorID:   creatorID,
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRealmRepo := repository.NewSQLiteRealmRepo(tx)

		if err := txRealmRepo.Create(ctx, realm); err != nil {
			return err
		}
		if err := txRealmRepo.AddMember(ctx, realm.ID, creatorID); err != nil {
			return fmt.Errorf("failed to add creator as member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return realm, nil
}

func (s *socialService) JoinRealm(ctx context.Context, userID, realmID string) error {
	realm, err := s.realmRepo.GetByID(ctx, realmID)
	if err != nil {
		return err
	}
	if err := s.realmRepo.AddMember(ctx, realmID, userID); err != nil {
		return err
	}

	s.notify(realm.CreatorID, userID, func() (*models.Notification, error) {
		return s.notifications.NotifyRealmJoin(ctx, realm.CreatorID, userID, realm.ID)
	})
	return nil
}

func (s *socialService) LeaveRealm(ctx context.Context, userID, realmID string) error {
	return s.realmRepo.RemoveMember(ctx, realmID, userID)
}

// notify, alıcı aktörün kendisi değilse bildirimi üretir. Hata loglanır.
func (s *socialService) notify(recipientID, actorID string, create func() (*models.Notification, error)) {
	if recipientID == actorID {
		return
	}

	if _, err := create(); err != nil {
		s.log.Error("failed to create notification",
			zap.String("recipient", recipientID),
			zap.String("actor", actorID),
			zap.Error(err),
		)
	}
}
