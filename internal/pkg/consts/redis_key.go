package consts

const (
	ConversationSyncKey = "mastosync:conversation:sync:"
	ConversationLockKey = "mastosync:conversation:lock:"
)
