package memory

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
)

// 演示账号
const (
	DemoUserID       = "1"
	DemoUserName     = "Admin User"
	DemoUserEmail    = "admin@books.com"
	DemoUserPassword = "admin123"
)

const placeholderThumbnail = "https://via.placeholder.com/150"

// SeedBooks 初始图书,全部归属演示账号
func SeedBooks() []*book.Book {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	mk := func(id, title, author string, price float64, category, description string, created time.Time) *book.Book {
		return &book.Book{
			ID:          id,
			Title:       title,
			Author:      author,
			Price:       price,
			Category:    category,
			Description: description,
			Thumbnail:   placeholderThumbnail,
			OwnerID:     DemoUserID,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}

	return []*book.Book{
		mk("1", "The Great Gatsby", "F. Scott Fitzgerald", 12.99, "Fiction",
			"A classic American novel set in the Jazz Age.", day(1)),
		mk("2", "To Kill a Mockingbird", "Harper Lee", 14.99, "Fiction",
			"A gripping tale of racial injustice and childhood innocence.", day(2)),
		mk("3", "1984", "George Orwell", 13.99, "Dystopian",
			"A dystopian social science fiction novel.", day(3)),
	}
}

// SeedUsers 初始用户,密码按给定cost做bcrypt
func SeedUsers(bcryptCost int) ([]*user.User, error) {
	hash, err := user.HashPassword(DemoUserPassword, bcryptCost)
	if err != nil {
		return nil, err
	}
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*user.User{
		user.NewUser(DemoUserID, DemoUserName, DemoUserEmail, hash, created),
	}, nil
}
