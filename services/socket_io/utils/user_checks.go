package socketio_utils

import (
	"Wordspy/middleware"
	models "Wordspy/models/postgres"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// VerifyUserConnection verifies a socket.io client connection using JWT
// authentication. It extracts the email from the JWT token and retrieves
// the associated username from the database.
func VerifyUserConnection(client *socket.Socket, db *gorm.DB) (success bool, username, email string) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		client.Emit("game.error", gin.H{"kind": "forbidden", "message": "Authentication failed: missing auth data"})
		return false, "", ""
	}

	email, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		client.Emit("game.error", gin.H{
			"kind":    "forbidden",
			"message": "Authentication failed: invalid JWT. Remember to set it on the 'authorization' field, 'Bearer ' prefix allowed.",
		})
		return false, "", ""
	}

	var user models.User
	if result := db.Where("email = ?", email).First(&user); result.Error != nil {
		client.Emit("game.error", gin.H{"kind": "forbidden", "message": "Authentication failed: could not find user"})
		return false, "", email
	}

	return true, user.Username, email
}
