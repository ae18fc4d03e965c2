package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// mockTx создаёт минимальный мок для передачи в BeforeSave
// В реальности BeforeSave не использует tx напрямую, но сигнатура требует его
var mockTx *gorm.DB = nil

func TestUser_BeforeSave_HashesPassword(t *testing.T) {
	// Arrange: создаём пользователя с открытым паролем
	plainPassword := "mySecretPassword123"
	user := &User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: plainPassword,
	}

	// Act: вызываем BeforeSave
	err := user.BeforeSave(mockTx)

	// Assert: пароль должен быть хеширован
	require.NoError(t, err, "BeforeSave не должен возвращать ошибку")
	assert.NotEqual(t, plainPassword, user.Password, "Пароль должен быть изменён после хеширования")

	// Проверяем, что пароль действительно bcrypt-хеш
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plainPassword))
	assert.NoError(t, err, "Хеш должен соответствовать исходному паролю")
}

func TestUser_BeforeSave_SkipsAlreadyHashedPassword(t *testing.T) {
	// Arrange: пароль уже является bcrypt-хешем
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{
		Username: "testuser",
		Password: string(hashed),
	}

	// Act
	err = user.BeforeSave(mockTx)

	// Assert: повторного хеширования не происходит
	require.NoError(t, err)
	assert.Equal(t, string(hashed), user.Password, "Уже хешированный пароль не должен меняться")
}

func TestUser_CheckPassword(t *testing.T) {
	// Arrange
	user := &User{Username: "testuser", Password: "correctPassword"}
	require.NoError(t, user.BeforeSave(mockTx))

	// Act & Assert
	assert.True(t, user.CheckPassword("correctPassword"), "Верный пароль должен проходить проверку")
	assert.False(t, user.CheckPassword("wrongPassword"), "Неверный пароль всегда отклоняется")
	assert.False(t, user.CheckPassword(""), "Пустой пароль отклоняется")
}

func TestUser_IsAdmin(t *testing.T) {
	// Act & Assert
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{Username: "admin", Role: RoleUser}).IsAdmin(),
		"Роль определяется колонкой, а не литеральным username")
}
