package telegram

import "context"

const welcomeText = "🚀 <b>Welcome to RapidFileConvert</b>\n\n" +
	"Choose a tool first using the menu below or type a command. Then upload the required file (as a document).\n\n" +
	"<b>Quick commands</b>\n" +
	"• <code>/menu</code> — interactive tools\n" +
	"• <code>/pdf_to_word</code>\n" +
	"• <code>/docx_to_pdf</code>\n" +
	"• <code>/pdf_to_jpg</code>\n" +
	"• <code>/jpg_to_pdf</code>\n" +
	"• <code>/png_to_jpg</code>\n" +
	"• <code>/jpg_to_png</code>\n" +
	"• <code>/compress</code>\n"

const helpText = "<b>How to use</b>\n\n" +
	"1) Choose an action from the menu OR type a command (e.g. /pdf_to_word).\n" +
	"2) Upload the file AFTER selecting action (send as <i>document</i> or photo where appropriate).\n" +
	"3) Bot converts and returns a downloadable file.\n\n" +
	"Commands: /menu /pdf_to_word /docx_to_pdf /pdf_to_jpg /jpg_to_pdf /png_to_jpg /jpg_to_png /compress /merge /status"

const menuText = "<b>Choose a tool</b>\nUpload required file after selecting the tool."

func toolKeyboard() [][]InlineButton {
	return [][]InlineButton{
		{
			{Text: "📄 PDF → Word", CallbackData: "pdf_to_word"},
			{Text: "📝 Word → PDF", CallbackData: "docx_to_pdf"},
		},
		{
			{Text: "🖼 PDF → JPG", CallbackData: "pdf_to_jpg"},
			{Text: "🟠 PNG → JPG", CallbackData: "png_to_jpg"},
		},
		{
			{Text: "📷 JPG → PNG", CallbackData: "jpg_to_png"},
			{Text: "📷 JPG → PDF", CallbackData: "jpg_to_pdf"},
		},
		{
			{Text: "📚 Merge PDFs", CallbackData: "merge"},
			{Text: "🗜 Compress PDF", CallbackData: "compress"},
		},
		{
			{Text: "📊 Usage", CallbackData: "status"},
			{Text: "❓ Help", CallbackData: "help"},
		},
	}
}

func mergeKeyboard() [][]InlineButton {
	return [][]InlineButton{
		{
			{Text: "🔗 Merge Now", CallbackData: "merge_now"},
			{Text: "❌ Cancel", CallbackData: "cancel_action"},
		},
	}
}

func (p *Poller) sendWelcome(ctx context.Context, chatID int64) {
	if err := p.client.NotifyWithKeyboard(ctx, chatID, welcomeText, toolKeyboard()); err != nil {
		p.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Welcome message failed")
	}
}

func (p *Poller) sendHelp(ctx context.Context, chatID int64) {
	p.notify(ctx, chatID, helpText)
}

func (p *Poller) sendMenu(ctx context.Context, chatID int64) {
	if err := p.client.NotifyWithKeyboard(ctx, chatID, menuText, toolKeyboard()); err != nil {
		p.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Menu message failed")
	}
}

func (p *Poller) sendMergeKeyboard(ctx context.Context, chatID int64) {
	if err := p.client.NotifyWithKeyboard(ctx, chatID, "When ready, press Merge Now.", mergeKeyboard()); err != nil {
		p.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Merge keyboard failed")
	}
}
