package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"
)

var supportedLanguages = language.NewMatcher([]language.Tag{
	language.English,
	language.Chinese,
})

// translations is keyed by language base and then by the English text.
// Anything missing falls back to English.
var translations = map[string]map[string]string{
	"zh": {
		MsgWelcome: "👋 欢迎来到骰子游戏！\n\n" +
			"如果有朋友邀请了您，请现在发送他的邀请码，否则请点击 <b>Skip</b>。",
		MsgRegisterToJoin: "👋 请先注册，注册后您将自动加入对决。\n\n" +
			"如果有朋友邀请了您，请现在发送他的邀请码，否则请点击 <b>Skip</b>。",
		MsgRegistered:  "✅ 注册成功！您的余额是 <b>%s</b> 游戏币。\n您的邀请码：<code>%s</code>",
		MsgWelcomeBack: "👋 欢迎回来！请从菜单中选择操作。",
		MsgBalance:     "💰 余额：<b>%s</b>\n🏆 胜：%d\n💔 负：%d",
		MsgRules: "📖 <b>游戏规则</b>\n\n" +
			"<b>单人掷骰</b>：每次掷骰花费 %s 游戏币。掷出三颗骰子，总点数大于 %d 即获胜并返还 %s。\n\n" +
			"<b>对决</b>：下注 %s 至 %s 游戏币，以 %s 为单位。双方各掷三颗骰子，总点数高者赢得双方赌注。\n" +
			"项目方收取一份赌注的 %s%%，赢家的邀请人获得 %s%%。平局时退还双方赌注。",
		MsgFAQ: "❔ <b>常见问题</b>\n\n" +
			"<b>如何邀请朋友？</b>\n打开 🎁 Invite friends 并分享您的链接。\n\n" +
			"<b>邀请能获得什么？</b>\n您邀请的朋友每赢一场对决，您都能获得一部分奖励。\n\n" +
			"<b>如何发起对决？</b>\n点击 ⚔️ Challenge，选择下注金额，然后把链接发给对手。\n\n" +
			"<b>可以撤回对决吗？</b>\n在有人接受之前可以，使用 /cancel 加对决编号。",
	},
}

// languageOf picks the reply language from the user's Telegram client.
func languageOf(user *tgbotapi.User) string {
	if user == nil || user.LanguageCode == "" {
		return "en"
	}
	tag, _, _ := supportedLanguages.Match(language.Make(user.LanguageCode))
	base, _ := tag.Base()
	return base.String()
}

func localize(lang, text string) string {
	if translated, ok := translations[lang][text]; ok {
		return translated
	}
	return text
}
