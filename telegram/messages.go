package telegram

// Reply keyboard buttons
const (
	BtnRoll      = "🎲 Roll"
	BtnChallenge = "⚔️ Challenge"
	BtnBalance   = "💰 Balance"
	BtnHistory   = "📜 History"
	BtnRooms     = "🏠 Rooms"
	BtnReferral  = "🎁 Invite friends"
	BtnRules     = "📖 Rules"
	BtnHelp      = "❓ Help"
	BtnSkip      = "⏭ Skip"
)

// Fixed replies
const (
	MsgWelcome = "👋 Welcome to the dice game!\n\n" +
		"If a friend invited you, send their referral code now. Otherwise press <b>Skip</b>."
	MsgRegisterToJoin = "👋 Register first and you will join the challenge right after.\n\n" +
		"If a friend invited you, send their referral code now. Otherwise press <b>Skip</b>."
	MsgRegistered        = "✅ Registered! Your balance is <b>%s</b> coins.\nYour referral code: <code>%s</code>"
	MsgWelcomeBack       = "👋 Welcome back! Pick an action from the menu."
	MsgBalance           = "💰 Balance: <b>%s</b>\n🏆 Wins: %d\n💔 Losses: %d"
	MsgAlreadyRegistered = "ℹ️ You are already registered."
	MsgNotRegistered     = "👋 You are not registered yet. Send /start to begin."
	MsgInsufficient      = "😕 Insufficient balance. A roll costs %s coins and you have %s."
	MsgStakeInsufficient = "😕 Insufficient balance. The stake is %s coins and you have %s."
	MsgNotEnoughCoins    = "😕 You do not have enough coins for that."
	MsgSlowDown          = "⏳ Too many requests. Please wait a moment."
	MsgBackendError      = "⚠️ Something went wrong: %s"
	MsgUnknown           = "🤔 I did not understand that. Use the menu below or /help."
	MsgNoGames           = "📭 You have not rolled yet. Press 🎲 Roll to play!"
	MsgNoRooms           = "📭 No rooms yet."
	MsgHelp              = "🎲 <b>Dice game</b>\n\n" +
		"Each roll costs %s coins. Three dice are thrown; a total above %d wins and pays back %s.\n\n" +
		"/roll - roll the dice\n" +
		"/challenge [stake] - duel another player\n" +
		"/cancel [id] - take back an open challenge\n" +
		"/balance - your balance and record\n" +
		"/history - your last rolls\n" +
		"/rooms - open rooms\n" +
		"/referral - your invite code\n" +
		"/rules - game rules and fees\n" +
		"/faq - common questions\n" +
		"/help - this message"
)

// Challenge replies
const (
	MsgAskBet          = "⚔️ How many coins do you stake? Send a multiple of %s between %s and %s."
	MsgBadBet          = "😕 That is not a valid stake. Send /challenge to try again."
	MsgChallengeOpened = "⚔️ Challenge opened! You rolled %s = <b>%d</b> with a stake of <b>%s</b>.\n" +
		"Balance: <b>%s</b>\n\n" +
		"Send this link to your opponent:\n%s\n\n" +
		"Changed your mind? /cancel %s"
	MsgChallengeAccepted = "⚔️ Challenge <code>%s</code>\n" +
		"You: %s = <b>%d</b>\n" +
		"Them: %s = <b>%d</b>\n" +
		"%s\nBalance: <b>%s</b>"
	MsgChallengeSettled = "⚔️ Your challenge <code>%s</code> was accepted.\n" +
		"You: %s = <b>%d</b>\n" +
		"Them: %s = <b>%d</b>\n" +
		"%s"
	MsgDuelWon            = "🎉 You win <b>%s</b> coins!"
	MsgDuelLost           = "😞 You lose."
	MsgDuelTie            = "🤝 A tie. Both stakes are returned."
	MsgChallengeGone      = "😕 That challenge is finished or does not exist."
	MsgChallengeCancelled = "↩️ Challenge cancelled and your stake returned.\nBalance: <b>%s</b>"
	MsgCannotCancel       = "😕 Cannot cancel: %s"
	MsgCancelUsage        = "Send /cancel followed by the challenge id."
)

// Rules and FAQ
const (
	MsgRules = "📖 <b>Rules</b>\n\n" +
		"<b>Solo roll</b>: each roll costs %s coins. Three dice are thrown; a total above %d wins and pays back %s.\n\n" +
		"<b>Challenge</b>: stake %s to %s coins in steps of %s. You and your opponent each roll three dice and the higher total wins both stakes.\n" +
		"The house keeps %s%% of one stake and %s%% goes to whoever invited the winner. A tie returns both stakes."
	MsgFAQ = "❔ <b>FAQ</b>\n\n" +
		"<b>How do I invite friends?</b>\nOpen 🎁 Invite friends and share your link.\n\n" +
		"<b>What do I earn from invites?</b>\nA share of every challenge your friends win.\n\n" +
		"<b>How do I challenge someone?</b>\nPress ⚔️ Challenge, pick a stake and send the link to your opponent.\n\n" +
		"<b>Can I take back a challenge?</b>\nYes, until someone accepts it. Use /cancel with its id."
)
