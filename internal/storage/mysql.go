package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/storage/models"
	"resume-extract-go/internal/tracing"
	"resume-extract-go/internal/types"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("resume-extract-go/storage/mysql")

// ErrRecordNotFound 查询无结果时返回，包装GORM的同名错误以便上层判断
var ErrRecordNotFound = gorm.ErrRecordNotFound

// GormTracingPlugin GORM插件，为数据库操作添加OpenTelemetry追踪点
type GormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}

	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}

	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}

	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}

	return nil
}

type gormSpanKey struct{}

// before 返回在GORM操作之前执行的回调
func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		spanName := fmt.Sprintf("%s %s", operation, tableName)
		newCtx, span := p.tracer.Start(ctx, spanName,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		)

		db.Statement.Context = context.WithValue(newCtx, gormSpanKey{}, span)
	}
}

// after 返回在GORM操作之后执行的回调
func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(gormSpanKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
			attribute.String("db.statement", tracing.SafeSQL(db.Statement.SQL.String())),
		)

		if db.Error != nil {
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				// ErrRecordNotFound 属于业务正常情况，不作为错误上报
				span.SetAttributes(attribute.String("error.type", "record_not_found"))
				span.SetStatus(codes.Ok, "record not found")
			} else {
				tracing.RecordError(span, db.Error, tracing.ErrorTypeDB)
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// NewGormTracingPlugin 创建GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer: mysqlTracer,
		dbName: dbName,
	}
}

// MySQL 提供候选人记录的关系数据库存取
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端并自动迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	// 构建DSN，附带超时设置
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = logger.Silent
	case 2:
		logLevel = logger.Error
	case 3:
		logLevel = logger.Warn
	case 4:
		logLevel = logger.Info
	default:
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	// 连接池参数
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	m := &MySQL{
		db:  db,
		cfg: cfg,
	}

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	if err := m.autoMigrateSchema(); err != nil {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	return m, nil
}

// autoMigrateSchema 使用GORM自动迁移数据库表结构
func (m *MySQL) autoMigrateSchema() error {
	// 迁移期间使用静默logger，避免刷一屏DDL
	silentLogger := logger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	silentDB := m.db.Session(&gorm.Session{Logger: silentLogger})

	err := silentDB.AutoMigrate(
		&models.JobSeeker{},
		&models.JobSeekerExperience{},
		&models.JobSeekerSkill{},
	)
	if err != nil {
		return fmt.Errorf("GORM自动迁移失败: %w", err)
	}
	return nil
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// InsertJobSeekerComplete 在单个事务中插入候选人主记录及其经历、技能子记录
// candidate 为解析产物；返回生成的候选人ID
func (m *MySQL) InsertJobSeekerComplete(ctx context.Context, candidate *types.ParsedCandidate, textMD5, extractorVer string) (string, error) {
	ctx, span := mysqlTracer.Start(ctx, "MySQL.InsertJobSeekerComplete",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	id, err := uuid.NewV4()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("生成候选人ID失败: %w", err)
	}
	jobSeekerID := id.String()

	name := "Unknown"
	if candidate.Name != nil {
		name = *candidate.Name
	}
	phone := ""
	if candidate.Phone != nil {
		phone = *candidate.Phone
	}

	span.SetAttributes(
		semconv.DBSystemMySQL,
		attribute.String("db.name", m.cfg.Database),
		attribute.String("job_seeker.id", jobSeekerID),
		attribute.Int("job_seeker.experiences", len(candidate.Companies)),
		attribute.Int("job_seeker.skills", len(candidate.Skills)),
		attribute.String("job_seeker.resume_preview", tracing.SafeResumeContent(candidate.RawText)),
	)

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 未提取到邮箱时落NULL而非空串，避免唯一索引把无邮箱记录判成重复
		seeker := models.JobSeeker{
			JobSeekerID:     jobSeekerID,
			Name:            name,
			Email:           candidate.Email,
			Phone:           phone,
			TotalExperience: candidate.TotalExperienceYears,
			ResumeText:      candidate.RawText,
			TextMD5:         textMD5,
			ExtractorVer:    extractorVer,
		}
		if err := tx.Create(&seeker).Error; err != nil {
			return fmt.Errorf("插入候选人主记录失败: %w", err)
		}

		for _, company := range candidate.Companies {
			experience := models.JobSeekerExperience{
				JobSeekerID: jobSeekerID,
				CompanyName: company.CompanyName,
				Tenure:      company.Tenure,
			}
			if err := tx.Create(&experience).Error; err != nil {
				return fmt.Errorf("插入工作经历失败: %w", err)
			}
		}

		for _, skill := range candidate.Skills {
			record := models.JobSeekerSkill{
				JobSeekerID: jobSeekerID,
				Skill:       skill,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("插入技能失败: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return "", err
	}

	span.SetStatus(codes.Ok, "")
	return jobSeekerID, nil
}

// GetJobSeekerByEmail 按邮箱查询候选人主记录
// 未找到时返回 ErrRecordNotFound
func (m *MySQL) GetJobSeekerByEmail(ctx context.Context, email string) (*models.JobSeeker, error) {
	var seeker models.JobSeeker
	err := m.db.WithContext(ctx).Where("email = ?", email).First(&seeker).Error
	if err != nil {
		return nil, err
	}
	return &seeker, nil
}

// GetJobSeekerExperiences 查询候选人的全部工作经历，按插入顺序
func (m *MySQL) GetJobSeekerExperiences(ctx context.Context, jobSeekerID string) ([]models.JobSeekerExperience, error) {
	var experiences []models.JobSeekerExperience
	err := m.db.WithContext(ctx).
		Where("job_seeker_id = ?", jobSeekerID).
		Order("id ASC").
		Find(&experiences).Error
	return experiences, err
}

// GetJobSeekerSkills 查询候选人的全部技能，按插入顺序
func (m *MySQL) GetJobSeekerSkills(ctx context.Context, jobSeekerID string) ([]models.JobSeekerSkill, error) {
	var skills []models.JobSeekerSkill
	err := m.db.WithContext(ctx).
		Where("job_seeker_id = ?", jobSeekerID).
		Order("id ASC").
		Find(&skills).Error
	return skills, err
}
