package services

import (
	"context"
	"errors"
	"log"

	"quizzical/models"
	"quizzical/queries"

	"gorm.io/gorm"
)

const (
	minRating = 1
	maxRating = 5
)

type RateQuizRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// SocialService owns ratings and favourites. Both reference a quiz and a
// user but neither owns them.
type SocialService struct {
	db        *gorm.DB
	listeners []ActivityListener
}

func NewSocialService(db *gorm.DB, listeners ...ActivityListener) *SocialService {
	return &SocialService{db: db, listeners: listeners}
}

func checkRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return invalidf("rating must be between %d and %d", minRating, maxRating)
	}
	return nil
}

func (s *SocialService) GetRating(ctx context.Context, userID, quizID uint) (*models.Rating, error) {
	var rating models.Rating
	if err := selectOne(ctx, s.db, queries.Rating(userID, quizID), &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// AddRating inserts a new rating; a second rating for the same (user, quiz)
// is a conflict.
func (s *SocialService) AddRating(ctx context.Context, userID, quizID uint, value int) (*models.Rating, error) {
	if err := checkRating(value); err != nil {
		return nil, err
	}
	rating := models.Rating{UserID: userID, QuizID: quizID, Rating: value}
	if err := s.db.WithContext(ctx).Create(&rating).Error; err != nil {
		return nil, classify(err)
	}
	return &rating, nil
}

func (s *SocialService) UpdateRating(ctx context.Context, userID, quizID uint, value int) (*models.Rating, error) {
	if err := checkRating(value); err != nil {
		return nil, err
	}
	affected, err := execute(ctx, s.db, queries.UpdateRating(userID, quizID, value))
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetRating(ctx, userID, quizID)
}

// RateQuiz adds the user's rating for quiz or updates it in place, leaving
// exactly one row per (user, quiz).
func (s *SocialService) RateQuiz(ctx context.Context, userID uint, quiz *models.Quiz, value int) (*models.Rating, error) {
	if err := checkRating(value); err != nil {
		return nil, err
	}

	var rating *models.Rating
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txSvc := &SocialService{db: tx}
		_, err := txSvc.GetRating(ctx, userID, quiz.ID)
		switch {
		case errors.Is(err, ErrNotFound):
			if err := tx.SavePoint("rating").Error; err != nil {
				return err
			}
			rating, err = txSvc.AddRating(ctx, userID, quiz.ID, value)
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			// A concurrent first rating won the insert; rate over it.
			log.Printf("Rating by user %d on quiz %d inserted concurrently, updating", userID, quiz.ID)
			if err := tx.RollbackTo("rating").Error; err != nil {
				return err
			}
			rating, err = txSvc.UpdateRating(ctx, userID, quiz.ID, value)
		case err == nil:
			rating, err = txSvc.UpdateRating(ctx, userID, quiz.ID, value)
		}
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	notify(ctx, s.listeners, quiz, EventRatingUpdated, rating)
	return rating, nil
}

func (s *SocialService) GetFavourite(ctx context.Context, userID, quizID uint) (*models.Favourite, error) {
	var favourite models.Favourite
	if err := selectOne(ctx, s.db, queries.Favourite(userID, quizID), &favourite); err != nil {
		return nil, err
	}
	return &favourite, nil
}

// AddFavourite fails with ErrConflict when the quiz is already a favourite.
func (s *SocialService) AddFavourite(ctx context.Context, userID uint, quiz *models.Quiz) (*models.Favourite, error) {
	favourite := models.Favourite{UserID: userID, QuizID: quiz.ID}
	if err := s.db.WithContext(ctx).Create(&favourite).Error; err != nil {
		return nil, classify(err)
	}
	notify(ctx, s.listeners, quiz, EventFavouriteAdded, &favourite)
	return &favourite, nil
}

func (s *SocialService) DeleteFavourite(ctx context.Context, userID uint, quiz *models.Quiz) error {
	affected, err := execute(ctx, s.db, queries.DeleteFavourite(userID, quiz.ID))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	notify(ctx, s.listeners, quiz, EventFavouriteRemoved, map[string]uint{"user_id": userID, "quiz_id": quiz.ID})
	return nil
}

func (s *SocialService) GetFavouritesForUser(ctx context.Context, userID uint) ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	err := selectAll(ctx, s.db, queries.FavouritesForUser(userID), &quizzes)
	return quizzes, err
}
