package repository

import (
	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.db.Create(course).Error
}

func (r *CourseRepository) GetByID(id int64) (*model.Course, error) {
	var course model.Course
	err := r.db.Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListPublished(page, pageSize int) ([]*model.Course, int64, error) {
	var courses []*model.Course
	var total int64

	query := r.db.Model(&model.Course{}).Where("is_published = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&courses).Error
	return courses, total, err
}

// CreateEnrollment 写入报名记录
func (r *CourseRepository) CreateEnrollment(enrollment *model.Enrollment) error {
	return r.db.Create(enrollment).Error
}

// HasEnrollment 用户是否已报名该课程
func (r *CourseRepository) HasEnrollment(userID, courseID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) CountByTeacher(teacherID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Course{}).Where("teacher_id = ?", teacherID).Count(&count).Error
	return count, err
}
