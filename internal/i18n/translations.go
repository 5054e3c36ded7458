// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

// translations holds the per-language catalogs, keyed by dotted string id.
var translations = map[string]map[string]string{
	English: {
		"common.loading": "Loading…",
		"common.cancel":  "Cancel",
		"common.save":    "Save",
		"common.back":    "Back",
		"common.yes":     "Yes",
		"common.no":      "No",
		"common.quit":    "Press ctrl+c to quit",

		"landing.title":       "Your business advisor",
		"landing.subtitle":    "Ask anything about running and growing your business",
		"landing.placeholder": "What would you like to ask?",
		"landing.hint":        "enter to send • tab for conversations • ctrl+s settings",
		"landing.signin":      "Sign in to start a conversation",

		"chat.placeholder":  "Type a message…",
		"chat.thinking":     "Advisor is thinking",
		"chat.attachment":   "attachment",
		"chat.download":     "saved to",
		"chat.context":      "ctrl+k context",
		"chat.hint":         "enter to send • esc for conversations",
		"chat.you":          "You",
		"chat.advisor":      "Advisor",
		"chat.error_prefix": "Something went wrong: ",

		"convlist.title":   "Conversations",
		"convlist.empty":   "No conversations yet. Ask your first question!",
		"convlist.delete":  "Delete this conversation?",
		"convlist.rename":  "New title:",
		"convlist.hint":    "enter to open • n new • r rename • d delete",
		"convlist.deleted": "Conversation deleted",

		"login.title":       "Sign in",
		"login.title_reg":   "Create account",
		"login.email":       "Email",
		"login.password":    "Password",
		"login.business":    "Business type",
		"login.submit":      "Sign in",
		"login.submit_reg":  "Register",
		"login.to_register": "No account? Press tab to register",
		"login.to_login":    "Have an account? Press tab to sign in",
		"login.failed":      "Sign-in failed",

		"settings.title":     "Settings",
		"settings.language":  "Language",
		"settings.theme":     "Theme",
		"settings.profile":   "Profile",
		"settings.logout":    "Sign out",
		"settings.signed_in": "Signed in as",
		"settings.saved":     "Saved",

		"profile.full_name": "Full name",
		"profile.nickname":  "Nickname",
		"profile.phone":     "Phone",
		"profile.country":   "Country",

		"context.title":          "Business context",
		"context.user_role":      "Your role",
		"context.business_stage": "Business stage",
		"context.goal":           "Goal",
		"context.urgency":        "Urgency",
		"context.region":         "Region",
		"context.business_niche": "Niche",
		"context.clear":          "Clear",
		"context.none":           "not set",
		"context.send":           "Send",
		"context.skip":           "Skip",
	},

	Russian: {
		"common.loading": "Загрузка…",
		"common.cancel":  "Отмена",
		"common.save":    "Сохранить",
		"common.back":    "Назад",
		"common.yes":     "Да",
		"common.no":      "Нет",
		"common.quit":    "Нажмите ctrl+c для выхода",

		"landing.title":       "Ваш бизнес-советник",
		"landing.subtitle":    "Задайте любой вопрос о ведении и развитии бизнеса",
		"landing.placeholder": "О чём хотите спросить?",
		"landing.hint":        "enter — отправить • tab — беседы • ctrl+s — настройки",
		"landing.signin":      "Войдите, чтобы начать беседу",

		"chat.placeholder":  "Введите сообщение…",
		"chat.thinking":     "Советник думает",
		"chat.attachment":   "вложение",
		"chat.download":     "сохранено в",
		"chat.context":      "ctrl+k контекст",
		"chat.hint":         "enter — отправить • esc — беседы",
		"chat.you":          "Вы",
		"chat.advisor":      "Советник",
		"chat.error_prefix": "Что-то пошло не так: ",

		"convlist.title":   "Беседы",
		"convlist.empty":   "Бесед пока нет. Задайте первый вопрос!",
		"convlist.delete":  "Удалить эту беседу?",
		"convlist.rename":  "Новое название:",
		"convlist.hint":    "enter — открыть • n — новая • r — переименовать • d — удалить",
		"convlist.deleted": "Беседа удалена",

		"login.title":       "Вход",
		"login.title_reg":   "Регистрация",
		"login.email":       "Эл. почта",
		"login.password":    "Пароль",
		"login.business":    "Тип бизнеса",
		"login.submit":      "Войти",
		"login.submit_reg":  "Зарегистрироваться",
		"login.to_register": "Нет аккаунта? Нажмите tab для регистрации",
		"login.to_login":    "Есть аккаунт? Нажмите tab для входа",
		"login.failed":      "Не удалось войти",

		"settings.title":     "Настройки",
		"settings.language":  "Язык",
		"settings.theme":     "Тема",
		"settings.profile":   "Профиль",
		"settings.logout":    "Выйти",
		"settings.signed_in": "Вы вошли как",
		"settings.saved":     "Сохранено",

		"profile.full_name": "Полное имя",
		"profile.nickname":  "Никнейм",
		"profile.phone":     "Телефон",
		"profile.country":   "Страна",

		"context.title":          "Контекст бизнеса",
		"context.user_role":      "Ваша роль",
		"context.business_stage": "Стадия бизнеса",
		"context.goal":           "Цель",
		"context.urgency":        "Срочность",
		"context.region":         "Регион",
		"context.business_niche": "Ниша",
		"context.clear":          "Очистить",
		"context.none":           "не задано",
		"context.send":           "Отправить",
		"context.skip":           "Пропустить",
	},
}
