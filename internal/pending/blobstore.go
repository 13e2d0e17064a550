package pending

import (
	"errors"
	"time"

	"github.com/fieldops/metas/internal/config"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// BlobStore persists one serialized blob per logical key, replaced
// wholesale on every write.
type BlobStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, blob []byte) error
	Delete(key string) error
}

type localBlob struct {
	Key       string `gorm:"primaryKey;type:text"`
	Blob      []byte
	UpdatedAt time.Time
}

func (localBlob) TableName() string { return "local_blobs" }

type sqliteBlobStore struct {
	db *gorm.DB
}

// NewBlobStore opens the process-local sqlite file used for durable
// client state. It is separate from the remote store connection.
func NewBlobStore(cfg config.Config) (BlobStore, error) {
	conn, err := gorm.Open(sqlite.Open(cfg.QueuePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(&localBlob{}); err != nil {
		return nil, err
	}
	return &sqliteBlobStore{db: conn}, nil
}

func (s *sqliteBlobStore) Get(key string) ([]byte, bool, error) {
	var row localBlob
	err := s.db.Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return row.Blob, true, nil
}

func (s *sqliteBlobStore) Put(key string, blob []byte) error {
	return s.db.Save(&localBlob{Key: key, Blob: blob, UpdatedAt: time.Now().UTC()}).Error
}

func (s *sqliteBlobStore) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&localBlob{}).Error
}
