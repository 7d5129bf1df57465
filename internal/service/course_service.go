package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

// CourseService 课程管理。创建课程走与发布内容相同的守护顺序，
// 购买和报名由支付结算完成。
type CourseService struct {
	db          *gorm.DB
	courseRepo  *repository.CourseRepository
	entitlement *EntitlementService
	quota       *QuotaService
	safety      *SafetyService
}

func NewCourseService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	entitlement *EntitlementService,
	quota *QuotaService,
	safety *SafetyService,
) *CourseService {
	return &CourseService{
		db:          db,
		courseRepo:  courseRepo,
		entitlement: entitlement,
		quota:       quota,
		safety:      safety,
	}
}

// Create 教师创建课程：权益门禁 -> 月度课程配额 -> 内容审核 -> 落库并确认消耗
func (s *CourseService) Create(teacherID int64, req *dto.CreateCourseRequest) (*model.Course, *dto.QuotaDecision, error) {
	sub, err := s.entitlement.RequireEntitled(teacherID)
	if err != nil {
		return nil, nil, err
	}

	plan, err := s.quota.PlanFor(sub)
	if err != nil {
		return nil, nil, err
	}

	decision, err := s.quota.CanConsume(teacherID, model.KindCourses, plan)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Allowed {
		return nil, decision, ErrQuotaExceeded
	}

	if req.UnlockRole != "" && !model.IsValidRole(req.UnlockRole) {
		return nil, nil, ErrInvalidRole
	}

	if result := s.safety.Validate(req.Title + "\n" + req.Description); !result.Valid {
		return nil, nil, ErrContentRejected
	}

	course := &model.Course{
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		UnlockRole:  req.UnlockRole,
		IsPublished: req.IsPublished,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCourseRepository(tx).Create(course); err != nil {
			return err
		}
		return NewQuotaService(
			repository.NewUsageRepository(tx), s.quota.planRepo, s.quota.subRepo,
		).CommitConsumption(teacherID, model.KindCourses)
	})
	if err != nil {
		return nil, nil, err
	}

	return course, decision, nil
}

// Get 课程详情。未上架课程仅作者本人可见。
func (s *CourseService) Get(userID, courseID int64) (*dto.CourseListItem, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished && course.TeacherID != userID {
		return nil, ErrCourseNotFound
	}

	enrolled := false
	if userID > 0 {
		enrolled, err = s.courseRepo.HasEnrollment(userID, course.ID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.CourseListItem{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Price:       course.Price,
		UnlockRole:  course.UnlockRole,
		Enrolled:    enrolled,
		CreatedAt:   course.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// ListPublished 上架课程列表，附带当前用户是否已购
func (s *CourseService) ListPublished(userID int64, page, pageSize int) ([]*dto.CourseListItem, int64, error) {
	courses, total, err := s.courseRepo.ListPublished(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.CourseListItem, 0, len(courses))
	for _, c := range courses {
		enrolled := false
		if userID > 0 {
			enrolled, err = s.courseRepo.HasEnrollment(userID, c.ID)
			if err != nil {
				return nil, 0, err
			}
		}
		items = append(items, &dto.CourseListItem{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Price:       c.Price,
			UnlockRole:  c.UnlockRole,
			Enrolled:    enrolled,
			CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return items, total, nil
}
