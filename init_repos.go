package main

import (
	"github.com/akinalp/realms/database"
	"github.com/akinalp/realms/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	User         repository.UserRepository
	Session      repository.SessionRepository
	Message      repository.MessageRepository
	Notification repository.NotificationRepository
	Post         repository.PostRepository
	Comment      repository.CommentRepository
	Realm        repository.RealmRepository
	Follow       repository.FollowRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
//
// Kullanıcı, session, mesaj ve bildirim repository'leri sqlx (db.X) ile
// struct scan yapar. Sosyal repository'ler transaction içinde de
// kullanıldığı için *sql.DB (TxQuerier) alır. İkisi aynı pool'dur.
func initRepositories(db *database.DB) *Repositories {
	return &Repositories{
		User:         repository.NewSQLiteUserRepo(db.X),
		Session:      repository.NewSQLiteSessionRepo(db.X),
		Message:      repository.NewSQLiteMessageRepo(db.X),
		Notification: repository.NewSQLiteNotificationRepo(db.X),
		Post:         repository.NewSQLitePostRepo(db.Conn),
		Comment:      repository.NewSQLiteCommentRepo(db.Conn),
		Realm:        repository.NewSQLiteRealmRepo(db.Conn),
		Follow:       repository.NewSQLiteFollowRepo(db.Conn),
	}
}
