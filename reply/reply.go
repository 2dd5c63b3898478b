// Package reply renders command results and failures as Telegram messages
// in the legacy Markdown parse mode. Every function is pure.
package reply

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"go-infobot"
)

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04"
)

// Message a reply ready to be sent
type Message struct {
	Text string
	// DisablePreview suppresses link previews under the message
	DisablePreview bool
}

// featured currencies listed by the rates command, in display order
var featured = []struct {
	code  infobot.Currency
	label string
}{
	{"USD", "🇺🇸 Доллар США"},
	{"EUR", "🇪🇺 Евро"},
	{"CNY", "🇨🇳 Китайский юань"},
}

func Start() Message {
	return Message{Text: "✨ *Добро пожаловать в InfoBot!* ✨\n\n" +
		"Я ваш персональный помощник для получения актуальной информации:\n\n" +
		"📌 *Основные команды:*\n" +
		"🌊 /author - Об авторе проекта\n" +
		"📰 /news - Свежие новости Санкт-Петербурга\n" +
		"💹 /rates - Курсы валют от ЦБ РФ\n" +
		"🔄 /convert [сумма] [из] [в] - Конвертер валют\n\n" +
		"*Пример использования конвертера:*\n" +
		"`/convert 100 USD RUB`\n\n" +
		"Выберите нужную команду из меню или введите вручную 👇"}
}

func Author() Message {
	return Message{
		Text: "👨‍💻 *Об авторе этого бота*\n\n" +
			"Этот проект создан *Weit* в качестве учебного проекта для изучения:\n" +
			"• Работы с внешними API 🌐\n\n" +
			"🔹 *Исходный код:* [GitHub](https://github.com/Weit145)\n" +
			"_Бот создан с ❤️ для удобного доступа к информации_",
		DisablePreview: true,
	}
}

// Rates lists the featured currencies found in table. Missing ones are skipped.
func Rates(table infobot.RateTable) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Курсы ЦБ РФ на %s:*\n\n", table.Date.Format(dateLayout))

	listed := 0
	for _, f := range featured {
		v, ok := table.Rates[f.code]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s руб. (за %d %s)\n", f.label, commaDecimal(v.Value, 4), v.Nominal, f.code)
		listed++
	}
	if listed == 0 {
		b.WriteString("Курсы основных валют сегодня не опубликованы.\n")
	}

	b.WriteString("\nℹ️ Курсы обновляются ежедневно в 12:00 по МСК")
	return Message{Text: b.String()}
}

func Conversion(ex infobot.Exchanged) Message {
	return Message{Text: fmt.Sprintf("💱 *Результат конвертации:*\n\n"+
		"🔹 *%s %s* = *%s %s*\n\n"+
		"📌 *Курс:* 1 %s = %s %s\n\n"+
		"🔄 Обмен по курсу ЦБ РФ на %s",
		ex.Amount.StringFixed(2), bold(string(ex.Source)),
		ex.Converted.StringFixed(2), bold(string(ex.Target)),
		escape(string(ex.Source)), ex.CrossRate.StringFixed(4), escape(string(ex.Target)),
		ex.Date.Format(dateLayout),
	)}
}

func News(articles []infobot.Article) Message {
	var b strings.Builder
	b.WriteString("📌 *Свежие новости России* 📌\n\n")
	for _, a := range articles {
		fmt.Fprintf(&b, "📰 *%s*\n", bold(a.Title))
		fmt.Fprintf(&b, "🔗 [Читать полностью](%s)\n", link(a.URL))
		fmt.Fprintf(&b, "🏷 *Источник:* %s\n", escape(a.SourceName))
		fmt.Fprintf(&b, "⏰ *Дата:* %s\n\n", a.PublishedAt.Format(dateTimeLayout))
	}
	b.WriteString("ℹ️ Новости обновляются автоматически")
	return Message{Text: b.String(), DisablePreview: true}
}

// Failure renders err for command. Unknown failures get the generic template.
func Failure(command infobot.Command, err error) Message {
	switch command {
	case infobot.CommandRates:
		switch {
		case errors.Is(err, infobot.ErrSourceUnavailable):
			return Message{Text: "⚠️ *Ошибка!* Не удалось получить курсы валют.\n" +
				"Попробуйте позже или проверьте соединение."}
		case errors.Is(err, infobot.ErrMalformedDocument):
			return Message{Text: "⚠️ *Ошибка!* ЦБ РФ прислал ответ, который не удалось разобрать.\n" +
				"Попробуйте позже."}
		}
	case infobot.CommandNews:
		switch {
		case errors.Is(err, infobot.ErrNoResults):
			return Message{Text: "📭 *Свежих новостей не найдено.*\n" +
				"Загляните позже."}
		case errors.Is(err, infobot.ErrSourceUnavailable), errors.Is(err, infobot.ErrMalformedDocument):
			return Message{Text: "⚠️ *Не удалось загрузить новости!*\n" +
				"Попробуйте позже или проверьте соединение с интернетом."}
		}
	case infobot.CommandConvert:
		var unknown *infobot.UnknownCurrencyError
		switch {
		case errors.Is(err, infobot.ErrInvalidArity), errors.Is(err, infobot.ErrInvalidAmount):
			return Message{Text: "❌ *Ошибка ввода!*\n\n" +
				"🔹 *Правильный формат:*\n" +
				"`/convert [сумма] [из валюты] [в валюту]`\n\n" +
				"*Примеры использования:*\n" +
				"• `/convert 100 USD RUB`\n" +
				"• `/convert 5000 RUB CNY`\n\n" +
				"ℹ️ Доступные валюты: USD, EUR, CNY, RUB и другие из списка ЦБ РФ"}
		case errors.As(err, &unknown):
			return Message{Text: fmt.Sprintf("❌ *Валюта %s не найдена.*\n\n"+
				"ℹ️ Доступные валюты: USD, EUR, CNY, RUB и другие из списка ЦБ РФ", bold(string(unknown.Code)))}
		case errors.Is(err, infobot.ErrSourceUnavailable), errors.Is(err, infobot.ErrMalformedDocument):
			return Message{Text: "⚠️ *Ошибка конвертации!*\n" +
				"Не удалось получить курсы ЦБ РФ. Попробуйте позже."}
		}
		return Message{Text: "⚠️ *Ошибка конвертации!*\n" +
			"Проверьте правильность ввода и попробуйте снова."}
	}
	return Unexpected()
}

// Unexpected answers a failure that has no template of its own.
func Unexpected() Message {
	return Message{Text: "⚠️ *Что-то пошло не так.*\nПопробуйте позже."}
}

// commaDecimal formats d the way the central bank publishes it: 92,1234
func commaDecimal(d decimal.Decimal, places int32) string {
	return strings.Replace(d.StringFixed(places), ".", ",", 1)
}

var escaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// escape makes s safe outside of an entity
func escape(s string) string {
	return escaper.Replace(s)
}

// bold makes s safe inside *...*, where only the closing star matters
func bold(s string) string {
	return strings.ReplaceAll(s, "*", "")
}

// link makes s safe inside (...) of an inline link
func link(s string) string {
	return strings.NewReplacer(")", "%29", " ", "%20").Replace(s)
}
