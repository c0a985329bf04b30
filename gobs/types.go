// Copyright (c) 2025 BVK Chaitanya

package gobs

// KeyValue is the record type used by database backup files.
type KeyValue struct {
	Key   string
	Value []byte
}

// TelegramState remembers the chat ids of authorized telegram users so that
// notifications can be delivered after a restart.
type TelegramState struct {
	UserChatIDMap map[string]int64
}
