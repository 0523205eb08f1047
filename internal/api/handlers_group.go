package api

import "Mastosync/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AccountHandler      *handler.AccountHandler
	SettingsHandler     *handler.SettingsHandler
	ConversationHandler *handler.ConversationHandler
	MediaHandler        *handler.MediaHandler
}
