package services

import (
	"context"
	"errors"

	"starwars-api/database"
	"starwars-api/models"
	"starwars-api/repository"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// PasswordPolicy controls how user passwords are checked and hashed
type PasswordPolicy struct {
	BcryptCost int
	Strict     bool
}

// UserService implements user CRUD and credential checks
type UserService struct {
	db        *sqlx.DB
	users     repository.UserRepository
	favorites repository.FavoriteRepository
	policy    PasswordPolicy
}

// NewUserService creates a new user service
func NewUserService(db *sqlx.DB, users repository.UserRepository, favorites repository.FavoriteRepository, policy PasswordPolicy) *UserService {
	if policy.BcryptCost == 0 {
		policy.BcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		db:        db,
		users:     users,
		favorites: favorites,
		policy:    policy,
	}
}

// List returns every active user with their favorites
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		users, err = s.users.List(ctx, tx, true)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return ErrNoUsers
		}
		return s.attachFavorites(ctx, tx, users)
	})
	if err != nil {
		return nil, persistence("list users", err)
	}
	return users, nil
}

// Get returns one user with their favorites
func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	var user *models.User
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		users := []models.User{*user}
		if err := s.attachFavorites(ctx, tx, users); err != nil {
			return err
		}
		user = &users[0]
		return nil
	})
	if err != nil {
		return nil, persistence("get user", err)
	}
	return user, nil
}

// GetActive is Get for a session holder: a user deactivated since login is
// refused with ErrUserInactive
func (s *UserService) GetActive(ctx context.Context, id int) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

// Create validates the request, hashes the password and stores a new active user
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	req.Normalize()
	if errs := req.Validate(s.policy.Strict); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.policy.BcryptCost)
	if err != nil {
		return nil, persistence("hash password", err)
	}

	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashed),
		IsActive:  true,
		Favorites: []models.Favorite{},
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.ensureEmailFree(ctx, tx, user.Email, 0); err != nil {
			return err
		}
		if err := s.users.Create(ctx, tx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, persistence("create user", err)
	}
	return user, nil
}

// Update applies the fields present in req to the user
func (s *UserService) Update(ctx context.Context, id int, req models.UpdateUserRequest) (*models.User, error) {
	req.Normalize()
	if errs := req.Validate(s.policy.Strict); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	var hashed string
	if req.Password != nil {
		b, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.policy.BcryptCost)
		if err != nil {
			return nil, persistence("hash password", err)
		}
		hashed = string(b)
	}

	var user *models.User
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.getUser(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Email != nil && *req.Email != user.Email {
			if err := s.ensureEmailFree(ctx, tx, *req.Email, id); err != nil {
				return err
			}
			user.Email = *req.Email
		}
		if hashed != "" {
			user.Password = hashed
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}

		if err := s.users.Update(ctx, tx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailAlreadyExists
			}
			return err
		}

		users := []models.User{*user}
		if err := s.attachFavorites(ctx, tx, users); err != nil {
			return err
		}
		user = &users[0]
		return nil
	})
	if err != nil {
		return nil, persistence("update user", err)
	}
	return user, nil
}

// Delete removes the user and returns it. Favorites owned by the user are
// left in place.
func (s *UserService) Delete(ctx context.Context, id int) (*models.User, error) {
	var user *models.User
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		users := []models.User{*user}
		if err := s.attachFavorites(ctx, tx, users); err != nil {
			return err
		}
		user = &users[0]
		return s.users.Delete(ctx, tx, id)
	})
	if err != nil {
		return nil, persistence("delete user", err)
	}
	return user, nil
}

// Authenticate returns the active user matching email and password
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, s.db, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, persistence("find user by email", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) getUser(ctx context.Context, q repository.Handle, id int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, q, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ensureEmailFree fails with ErrEmailAlreadyExists when email belongs to a
// user other than exceptID
func (s *UserService) ensureEmailFree(ctx context.Context, q repository.Handle, email string, exceptID int) error {
	existing, err := s.users.GetByEmail(ctx, q, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != exceptID {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *UserService) attachFavorites(ctx context.Context, q repository.Handle, users []models.User) error {
	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	favs, err := s.favorites.List(ctx, q, ids...)
	if err != nil {
		return err
	}

	byUser := make(map[int][]models.Favorite, len(users))
	for _, f := range favs {
		byUser[f.UserID] = append(byUser[f.UserID], f)
	}
	for i := range users {
		users[i].Favorites = byUser[users[i].ID]
		if users[i].Favorites == nil {
			users[i].Favorites = []models.Favorite{}
		}
	}
	return nil
}
