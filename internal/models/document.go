package models

import "time"

// Document is a JSON body stored under a namespaced key in SQLite
type Document struct {
	Namespace string    `json:"namespace" gorm:"type:text;primaryKey;column:namespace"`
	Key       string    `json:"key" gorm:"type:text;primaryKey;column:doc_key"`
	Body      []byte    `json:"body" gorm:"type:blob;not null;column:body"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:datetime;column:updated_at"`
}

// TableName pins the table created by the documents migration
func (Document) TableName() string {
	return "documents"
}
