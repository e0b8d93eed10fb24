package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/model"
	"profiremanager/backend/internal/repository"
	"profiremanager/backend/pkg/mailer"
)

var ErrEmailTaken = errors.New("该邮箱已被注册")

// UserService 人员管理业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
}

type userService struct {
	repo   *repository.Repository
	mail   *mailer.Mailer
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, mail *mailer.Mailer, logger *zap.Logger) UserService {
	return &userService{repo: repo, mail: mail, logger: logger}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱占用失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	maxHours := req.MaxWeeklyHours
	if maxHours == 0 {
		maxHours = 40
	}

	user := &model.User{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		EmergencyContact: req.EmergencyContact,
		Grade:            req.Grade,
		ActingOfficer:    req.ActingOfficer,
		EmploymentType:   req.EmploymentType,
		MaxWeeklyHours:   maxHours,
		Role:             req.Role,
		Status:           model.StatusActive,
		EmployeeNumber:   req.EmployeeNumber,
		HireDate:         hireDate,
		TrainingIDs:      req.TrainingIDs,
		PasswordHash:     string(hash),
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建人员失败", zap.Error(err))
		return nil, err
	}

	// 欢迎邮件异步发送，失败不影响创建
	if s.mail != nil && s.mail.Enabled() {
		go func(email, name string) {
			body := fmt.Sprintf("%s，您好！您的 ProFireManager 账号已创建，登录邮箱为 %s。", name, email)
			if err := s.mail.Send(email, "欢迎加入 ProFireManager", body); err != nil {
				s.logger.Warn("欢迎邮件发送失败", zap.String("email", email), zap.Error(err))
			}
		}(user.Email, user.FullName())
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询人员失败", zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询人员失败", zap.Error(err))
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.EmergencyContact != nil {
		user.EmergencyContact = *req.EmergencyContact
	}
	if req.Grade != nil {
		user.Grade = *req.Grade
	}
	if req.ActingOfficer != nil {
		user.ActingOfficer = *req.ActingOfficer
	}
	if req.EmploymentType != nil {
		user.EmploymentType = *req.EmploymentType
	}
	if req.MaxWeeklyHours != nil {
		user.MaxWeeklyHours = *req.MaxWeeklyHours
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.TrainingIDs != nil {
		user.TrainingIDs = *req.TrainingIDs
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新人员失败", zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询人员失败", zap.Error(err))
		return err
	}
	if err := s.repo.User.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除人员失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询人员列表失败", zap.Error(err))
		return nil, 0, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	return items, total, nil
}
