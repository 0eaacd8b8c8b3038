// SPDX-License-Identifier: MIT

package bot

// User-facing texts. HTML parse mode throughout.
const (
	textHelp = "📖 <b>Справка по использованию бота</b>\n\n" +
		"<b>Основные команды:</b>\n" +
		"/start - Начать работу с ботом\n" +
		"/help - Показать эту справку\n" +
		"/cancel - Отменить текущее действие\n\n" +
		"<b>Как найти маршрут:</b>\n" +
		"1️⃣ Нажмите кнопку <b>\"Автобусы\"</b>\n" +
		"2️⃣ Укажите начальную и конечную остановки:\n" +
		"   • 📍 На карте - отправьте геолокацию\n" +
		"   • 📋 Из списка - выберите из всех остановок\n" +
		"   • 🔍 Поиском - введите название\n" +
		"3️⃣ Укажите время отправления (опционально)\n" +
		"4️⃣ Нажмите <b>\"Подтвердить\"</b>\n\n" +
		"❓ <b>Возникли проблемы?</b>\n" +
		"Используйте /cancel для отмены текущей операции и возврата в главное меню."

	textMainMenu         = "Главное меню:"
	textCanceled         = "✅ Действие отменено. Возвращаемся в главное меню."
	textRouteMenu        = "🚌 <b>Планирование маршрута</b>\n\nВыберите параметры вашей поездки:"
	textOriginMethod     = "📍 <b>Выберите способ указания начальной точки:</b>"
	textDestMethod       = "📍 <b>Выберите способ указания конечной точки:</b>"
	textSendLocation     = "\n\nИспользуйте кнопку 📎 → Геолокация"
	textOriginLocation   = "📍 Отправьте геолокацию начальной точки"
	textDestLocation     = "📍 Отправьте геолокацию конечной точки"
	textOriginSearch     = "🔍 Введите название начальной остановки:"
	textDestSearch       = "🔍 Введите название конечной остановки:"
	textNoNearbyStops    = "❌ Не найдено остановок поблизости. Попробуйте другой способ выбора."
	textEnterTime        = "⌨️ Введите время в формате ЧЧ:ММ, например 08:30"
	textBadTime          = "❌ Неверный формат времени. Введите время в формате ЧЧ:ММ, например 08:30"
	textTimeUpdated      = "✅ Время обновлено"
	textNeedBothStops    = "❌ Укажите начальную и конечную остановки"
	textSameStops        = "❌ Начальная и конечная остановки совпадают"
	textSearching        = "🔍 Ищем маршруты..."
	textNoJourneys       = "❌ <b>Маршруты не найдены</b>\n\nПопробуйте изменить параметры поиска."
	textJourneysHeader   = "🚌 <b>Найденные маршруты:</b>\n\n"
	textOrgsMenu         = "🏢 <b>Организации</b>\n\nВыберите категорию:"
	textOrgNotFound      = "❌ Организация не найдена"
	textCategoryNotFound = "❌ Категория не найдена"
	textStaleKeyboard    = "⏳ Кнопка устарела, начните заново"
	textPageInfo         = "ℹ️ Это индикатор страницы. Используйте стрелки для навигации."
	textNoPermission     = "❌ У вас нет прав для этой операции"
	textAddCategory      = "➕ Введите название новой категории:"
	textAddOrg           = "➕ Введите данные организации, разделяя пустой строкой:\n\n" +
		"1. Название организации\n" +
		"2. Адрес\n" +
		"3. Телефон (не обязательно)\n" +
		"4. Название категории"
	textBadOrgFormat = "❌ Неверный формат. Нужно ввести:\n" +
		"1. Название организации\n" +
		"2. Адрес\n" +
		"3. Телефон (не обязательно)\n" +
		"4. Название категории"
	textUnknownInput = "🤔 Я не понял сообщение. Используйте кнопки меню или /help."
	textInternal     = "⚠️ Что-то пошло не так. Попробуйте ещё раз или используйте /cancel."
	textRecentEmpty  = "🕘 У вас пока нет сохранённых поисков."
	textRecentHeader = "🕘 <b>Последние поиски:</b>"
)

const welcomeTemplate = "👋 Привет, <b>%s</b>!\n\n" +
	"Я помогу вам найти оптимальный маршрут на автобусе " +
	"в городе Вятские Поляны.\n\n" +
	"<b>Что я умею:</b>\n" +
	"🚌 Поиск маршрутов между остановками\n" +
	"📍 Поиск ближайших остановок\n" +
	"🕐 Расчёт времени в пути\n" +
	"🏢 Справочник организаций города\n\n" +
	"Нажмите кнопку ниже, чтобы начать!"
