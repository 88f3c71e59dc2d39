package i18n

// Key identifies a user-facing message.
type Key string

const (
	NameRequired      Key = "name_required"
	NameTooShort      Key = "name_too_short"
	NameTooLong       Key = "name_too_long"
	PhoneTooLong      Key = "phone_too_long"
	StatusInvalid     Key = "status_invalid"
	QuantityInvalid   Key = "quantity_invalid"
	CompanionRequired Key = "companion_required"
	CompanionTooLong  Key = "companion_too_long"
	MessageTooLong    Key = "message_too_long"
	FieldInvalid      Key = "field_invalid"
	BodyInvalid       Key = "body_invalid"
	InvalidData       Key = "invalid_data"
	SaveFailed        Key = "save_failed"
	LoadFailed        Key = "load_failed"
	DeadlinePassed    Key = "deadline_passed"
	TooManyRequests   Key = "too_many_requests"

	IntroAutoplayBlocked Key = "intro_autoplay_blocked"
	IntroAudioBlocked    Key = "intro_audio_blocked"
	IntroStartFailed     Key = "intro_start_failed"
	IntroSoundBlocked    Key = "intro_sound_blocked"
	IntroVideoMissing    Key = "intro_video_missing"
)

var catalogue = map[Language]map[Key]string{
	Portuguese: {
		NameRequired:      "Informe seu nome",
		NameTooShort:      "Nome muito curto",
		NameTooLong:       "Nome muito longo",
		PhoneTooLong:      "Telefone muito longo",
		StatusInvalid:     "Presença inválida",
		QuantityInvalid:   "Quantidade de acompanhantes inválida",
		CompanionRequired: "Informe o nome do acompanhante",
		CompanionTooLong:  "Nome do acompanhante muito longo",
		MessageTooLong:    "Mensagem muito longa",
		FieldInvalid:      "Valor inválido",
		BodyInvalid:       "Corpo da requisição inválido",
		InvalidData:       "Dados inválidos",
		SaveFailed:        "Erro ao salvar RSVP",
		LoadFailed:        "Erro ao carregar convidados",
		DeadlinePassed:    "O prazo para confirmar presença terminou",
		TooManyRequests:   "Muitas tentativas. Aguarde um instante.",

		IntroAutoplayBlocked: "Seu navegador bloqueou o autoplay. Toque em “Iniciar”.",
		IntroAudioBlocked:    "Seu navegador bloqueou o áudio. Toque em “Iniciar” para tentar novamente.",
		IntroStartFailed:     "Não foi possível iniciar o vídeo.",
		IntroSoundBlocked:    "O navegador bloqueou áudio automático. Toque novamente para ativar.",
		IntroVideoMissing:    "Não encontrei o vídeo de introdução.",
	},
	English: {
		NameRequired:      "Please enter your name",
		NameTooShort:      "Name is too short",
		NameTooLong:       "Name is too long",
		PhoneTooLong:      "Phone number is too long",
		StatusInvalid:     "Invalid attendance status",
		QuantityInvalid:   "Invalid number of companions",
		CompanionRequired: "Please enter your companion's name",
		CompanionTooLong:  "Companion name is too long",
		MessageTooLong:    "Message is too long",
		FieldInvalid:      "Invalid value",
		BodyInvalid:       "Invalid request body",
		InvalidData:       "Invalid data",
		SaveFailed:        "Could not save RSVP",
		LoadFailed:        "Could not load guests",
		DeadlinePassed:    "The RSVP deadline has passed",
		TooManyRequests:   "Too many attempts. Please wait a moment.",

		IntroAutoplayBlocked: "Your browser blocked autoplay. Tap “Start”.",
		IntroAudioBlocked:    "Your browser blocked audio. Tap “Start” to try again.",
		IntroStartFailed:     "Could not start the video.",
		IntroSoundBlocked:    "Your browser blocked automatic audio. Tap again to enable it.",
		IntroVideoMissing:    "The intro video could not be found.",
	},
}

// T returns the message for key in lang, falling back to Portuguese and
// finally to the key itself.
func T(lang Language, key Key) string {
	if msg, ok := catalogue[lang][key]; ok {
		return msg
	}
	if msg, ok := catalogue[Portuguese][key]; ok {
		return msg
	}
	return string(key)
}
