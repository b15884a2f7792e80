package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu             UserState = "main_menu"             // В главном меню
	StateAwaitingBeamLength   UserState = "awaiting_beam_length"  // Выбор длины балки
	StateAwaitingMeasurements UserState = "awaiting_measurements" // Ввод измерений по толщине
	StateAwaitingZone         UserState = "awaiting_zone"         // Выбор зоны для измерений по глубине
	StateAwaitingLayerValues  UserState = "awaiting_layer_values" // Ввод измерений по глубине
)

// User представляет пользователя бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// InWizard сообщает, что пользователь находится внутри сценария проверки
func (u *User) InWizard() bool {
	return u.State != StateMainMenu
}
