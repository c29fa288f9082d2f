package telegram

import (
	"fmt"

	"ai-assistant/internal/language"
	"ai-assistant/internal/store"
)

// User-visible strings. The language asymmetries mirror the bot's original
// behavior: the thinking placeholder is Georgian only for Georgian input,
// while error notices default to Georgian for everything but English.

func thinkingText(cat language.Category) string {
	if cat == language.Georgian {
		return "🤔 ვფიქრობ..."
	}
	return "🤔 Thinking..."
}

func apiErrorText(cat language.Category) string {
	if cat == language.English {
		return "😕 API error occurred. Please try again later."
	}
	return "😕 API შეცდომა მოხდა. სცადეთ მოგვიანებით."
}

func genericErrorText(cat language.Category) string {
	if cat == language.English {
		return "😕 Something went wrong. Please contact admin."
	}
	return "😕 რაღაც არასწორად მოხდა. დაუკავშირდით ადმინს."
}

func welcomeText(cat language.Category, fullName, model string) string {
	if cat == language.Georgian {
		return fmt.Sprintf(`👋 გამარჯობა, <b>%s</b>!

🤖 მე ვარ შენი პერსონალური AI ასისტენტი, რომელიც იყენებს <code>%s</code> მოდელს.

✨ <b>რას შემიძლია:</b>
• ვუპასუხო ნებისმიერ კითხვას ქართულად და ინგლისურად
• ვინახავ ჩვენი საუბრის კონტექსტს
• დაგეხმარო სამუშაოში, სწავლაში, შემოქმედებაში
• ვიყო შენი AI მეგობარი და ასისტენტი

💬 უბრალოდ დამწერე რაიმე და დავიწყოთ საუბარი!`, fullName, model)
	}
	return fmt.Sprintf(`👋 Hello, <b>%s</b>!

🤖 I'm your personal AI assistant powered by <code>%s</code>.

✨ <b>What I can do:</b>
• Answer any questions in Georgian and English
• Remember our conversation context
• Help with work, learning, creativity
• Be your AI friend and assistant

💬 Just write me anything and let's start chatting!`, fullName, model)
}

func contextClearedText(cat language.Category) string {
	if cat == language.Georgian {
		return "🗑️ საუბრის კონტექსტი გაიწმინდა!\nახლა შეგიძლია ახალი თემა დაიწყო."
	}
	return "🗑️ Conversation context cleared!\nYou can now start a new topic."
}

const noStatsText = "📊 No statistics available yet."

func statsText(cat language.Category, st store.Stats) string {
	since := st.MemberSince.Format("2006-01-02")
	if cat == language.Georgian {
		return fmt.Sprintf(`📊 <b>შენი სტატისტიკა:</b>

💬 შეტყობინებები: %d
📅 წევრობა: %s
🌐 ენა: %s`, st.MessageCount, since, st.PreferredLanguage)
	}
	return fmt.Sprintf(`📊 <b>Your Statistics:</b>

💬 Messages: %d
📅 Member since: %s
🌐 Language: %s`, st.MessageCount, since, st.PreferredLanguage)
}

func settingsText(p store.Preferences) string {
	return fmt.Sprintf(`⚙️ <b>Your Settings</b>

🧠 Context length: %d turns
🎨 Response style: %s
🕐 Timezone: %s

Preference editing is not available yet.`, p.ContextLength, p.ResponseStyle, p.Timezone)
}

const helpText = `🤖 <b>AI Personal Assistant Help</b>

<b>Available Commands:</b>
/start - Start the bot
/newchat - Clear conversation context
/stats - View your statistics
/help - Show this help

<b>Features:</b>
• Multilingual support (Georgian/English)
• Conversation memory
• Personal assistant capabilities
• Context-aware responses

<b>Tips:</b>
• Write in Georgian or English - I'll respond in the same language
• I remember our conversation until you start a new chat
• Ask me anything - I'm here to help!

💡 Just start typing to begin our conversation!`
