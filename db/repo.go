package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_equipment_rent/models"
	"Gin_postgres_redis_equipment_rent/services"

	"gorm.io/gorm"
)

var _ services.Store = (*Repo)(nil)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// WithTx fn 内必须使用传入的 tx
func (r *Repo) WithTx(ctx context.Context, fn func(tx services.Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{DB: tx})
	})
}

// Departments

func (r *Repo) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var ds []models.Department
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *Repo) FindDepartment(ctx context.Context, id uint) (*models.Department, error) {
	var d models.Department
	if err := r.DB.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("department %d", id))
	}
	return &d, nil
}

func (r *Repo) CreateDepartment(ctx context.Context, d *models.Department) error {
	return translate(r.DB.WithContext(ctx).Create(d).Error, "department "+d.Name)
}

func (r *Repo) UpdateDepartment(ctx context.Context, d *models.Department) error {
	res := r.DB.WithContext(ctx).Model(d).
		Select("name", "location", "phone", "contact_person").
		Updates(d)
	return affected(res, "department "+d.Name)
}

func (r *Repo) DeleteDepartment(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&models.Department{}, id), fmt.Sprintf("department %d", id))
}

// Staff

func (r *Repo) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var ss []models.Staff
	if err := r.DB.WithContext(ctx).Order("first_name ASC, last_name ASC").Find(&ss).Error; err != nil {
		return nil, err
	}
	return ss, nil
}

func (r *Repo) FindStaff(ctx context.Context, id uint) (*models.Staff, error) {
	var s models.Staff
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("staff %d", id))
	}
	return &s, nil
}

func (r *Repo) FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var s models.Staff
	if err := r.DB.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&s).Error; err != nil {
		return nil, translate(err, "staff "+email)
	}
	return &s, nil
}

func (r *Repo) CreateStaff(ctx context.Context, s *models.Staff) error {
	return translate(r.DB.WithContext(ctx).Create(s).Error, "staff "+s.Email)
}

func (r *Repo) UpdateStaff(ctx context.Context, s *models.Staff) error {
	res := r.DB.WithContext(ctx).Model(s).
		Select("first_name", "last_name", "role", "email", "contact", "department_id").
		Updates(s)
	return affected(res, "staff "+s.Email)
}

func (r *Repo) DeleteStaff(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&models.Staff{}, id), fmt.Sprintf("staff %d", id))
}

func (r *Repo) CountTechnicians(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Staff{}).
		Where("role = ?", models.RoleTechnician).
		Count(&n).Error
	return n, err
}

// 用数据库时间，避免各实例时钟不一致
func (r *Repo) TouchStaffSeen(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&models.Staff{}).
		Where("id = ?", id).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}
