package main

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Atrate/certumctl/internal/config"
)

// Supported languages
const (
	LangEnglish = "en"
	LangPolish  = "pl"
	LangGerman  = "de"
)

var (
	// Global printer for internationalization
	printer *message.Printer

	// Synchronization for thread-safe access
	initI18nOnce sync.Once
	printerMu    sync.RWMutex

	// Available languages. Polish is included because Certum cards ship
	// with Polish documentation.
	supportedLanguages = map[string]language.Tag{
		LangEnglish: language.English,
		LangPolish:  language.Polish,
		LangGerman:  language.German,
	}
)

// initI18n initializes the internationalization system thread-safely.
func initI18n(langFlag string) {
	initI18nOnce.Do(func() {
		registerMessages()
	})

	lang := determineLang(langFlag)

	tag, exists := supportedLanguages[lang]
	if !exists {
		tag = language.English
	}

	printerMu.Lock()
	printer = message.NewPrinter(tag)
	printerMu.Unlock()
}

// determineLang determines which language to use based on priority:
// 1. CLI flag (--lang)
// 2. Environment variable (CERTUMCTL_LANG)
// 3. Standard locale environment variables (LC_ALL, LANG)
// 4. Default (English)
func determineLang(langFlag string) string {
	if langFlag != "" {
		return normalizeLang(langFlag)
	}
	if envLang := os.Getenv(config.EnvLang); envLang != "" {
		return normalizeLang(envLang)
	}
	for _, envVar := range []string{"LC_ALL", "LANG"} {
		if locale := os.Getenv(envVar); locale != "" {
			return normalizeLang(locale)
		}
	}
	return LangEnglish
}

// normalizeLang reduces locale strings like "pl_PL.UTF-8" to a language
// code.
func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.IndexAny(lang, "_.-"); idx > 0 {
		lang = lang[:idx]
	}
	return lang
}

// detectLanguageFromArgs scans the raw argv for --lang before Cobra has
// parsed anything, so help output renders localized.
func detectLanguageFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--lang" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--lang=") {
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}

// initI18nForCLI initializes i18n early for Cobra CLI with language
// detection from args.
func initI18nForCLI(args []string) {
	initI18n(detectLanguageFromArgs(args))
}

// T translates a message key, formatting any arguments with the active
// language printer.
func T(key string, args ...interface{}) string {
	printerMu.RLock()
	p := printer
	printerMu.RUnlock()

	if p == nil {
		initI18n("")
		printerMu.RLock()
		p = printer
		printerMu.RUnlock()
	}

	return p.Sprintf(key, args...)
}

// registerMessages registers all translated strings.
func registerMessages() {
	// Command descriptions
	message.SetString(language.English, "root_short", "Prepare a host for Certum smartcards and manage the card interactively")
	message.SetString(language.Polish, "root_short", "Przygotuj system do obsługi kart Certum i zarządzaj kartą interaktywnie")
	message.SetString(language.German, "root_short", "Host für Certum-Smartcards vorbereiten und die Karte interaktiv verwalten")

	message.SetString(language.English, "root_long", "Verifies smartcard middleware, remediates missing pieces with your consent, and drives card operations through an interactive menu.")
	message.SetString(language.Polish, "root_long", "Weryfikuje oprogramowanie pośredniczące karty, za zgodą operatora uzupełnia braki i udostępnia operacje na karcie w interaktywnym menu.")
	message.SetString(language.German, "root_long", "Prüft die Smartcard-Middleware, behebt fehlende Teile mit Ihrer Zustimmung und steuert Kartenoperationen über ein interaktives Menü.")

	message.SetString(language.English, "check_short", "Verify environment readiness without remediating")
	message.SetString(language.Polish, "check_short", "Sprawdź gotowość środowiska bez wprowadzania zmian")
	message.SetString(language.German, "check_short", "Umgebungsbereitschaft prüfen, ohne etwas zu ändern")

	message.SetString(language.English, "check_long", "Runs the OS probe and every readiness check, prints a report and exits. Never installs packages or starts services.")
	message.SetString(language.Polish, "check_long", "Wykonuje sondę systemu i wszystkie testy gotowości, wypisuje raport i kończy działanie. Niczego nie instaluje ani nie uruchamia.")
	message.SetString(language.German, "check_long", "Führt die Systemerkennung und alle Bereitschaftsprüfungen aus, gibt einen Bericht aus und beendet sich. Installiert oder startet nie etwas.")

	message.SetString(language.English, "version_short", "Show version information")
	message.SetString(language.Polish, "version_short", "Pokaż informacje o wersji")
	message.SetString(language.German, "version_short", "Versionsinformationen anzeigen")

	message.SetString(language.English, "flag_verbose_help", "Enable verbose output")
	message.SetString(language.Polish, "flag_verbose_help", "Włącz szczegółowe komunikaty")
	message.SetString(language.German, "flag_verbose_help", "Ausführliche Ausgabe aktivieren")

	message.SetString(language.English, "flag_lang_help", "Interface language (en, pl, de)")
	message.SetString(language.Polish, "flag_lang_help", "Język interfejsu (en, pl, de)")
	message.SetString(language.German, "flag_lang_help", "Sprache der Oberfläche (en, pl, de)")

	// Generic choices
	message.SetString(language.English, "choice_yes", "Yes")
	message.SetString(language.Polish, "choice_yes", "Tak")
	message.SetString(language.German, "choice_yes", "Ja")

	message.SetString(language.English, "choice_no", "No")
	message.SetString(language.Polish, "choice_no", "Nie")
	message.SetString(language.German, "choice_no", "Nein")

	message.SetString(language.English, "choice_install", "Install")
	message.SetString(language.Polish, "choice_install", "Zainstaluj")
	message.SetString(language.German, "choice_install", "Installieren")

	message.SetString(language.English, "choice_start", "Start")
	message.SetString(language.Polish, "choice_start", "Uruchom")
	message.SetString(language.German, "choice_start", "Starten")

	message.SetString(language.English, "choice_retry", "Retry")
	message.SetString(language.Polish, "choice_retry", "Ponów")
	message.SetString(language.German, "choice_retry", "Erneut")

	message.SetString(language.English, "choice_abort", "Abort")
	message.SetString(language.Polish, "choice_abort", "Przerwij")
	message.SetString(language.German, "choice_abort", "Abbrechen")

	message.SetString(language.English, "invalid_selection", "invalid selection")
	message.SetString(language.Polish, "invalid_selection", "nieprawidłowy wybór")
	message.SetString(language.German, "invalid_selection", "ungültige Auswahl")

	// System probe
	message.SetString(language.English, "unsupported_os_warning", "Warning: OS %s %s is not in the supported configuration table.")
	message.SetString(language.Polish, "unsupported_os_warning", "Ostrzeżenie: system %s %s nie znajduje się w tabeli obsługiwanych konfiguracji.")
	message.SetString(language.German, "unsupported_os_warning", "Warnung: Betriebssystem %s %s steht nicht in der Tabelle unterstützter Konfigurationen.")

	message.SetString(language.English, "unsupported_os_question", "Continue anyway with a substitute profile?")
	message.SetString(language.Polish, "unsupported_os_question", "Kontynuować mimo to z profilem zastępczym?")
	message.SetString(language.German, "unsupported_os_question", "Trotzdem mit einem Ersatzprofil fortfahren?")

	message.SetString(language.English, "unsupported_os_context", "unsupported operating system")
	message.SetString(language.Polish, "unsupported_os_context", "nieobsługiwany system operacyjny")
	message.SetString(language.German, "unsupported_os_context", "nicht unterstütztes Betriebssystem")

	message.SetString(language.English, "impersonate_title", "Select a supported profile to impersonate")
	message.SetString(language.Polish, "impersonate_title", "Wybierz obsługiwany profil do naśladowania")
	message.SetString(language.German, "impersonate_title", "Unterstütztes Profil zum Nachahmen auswählen")

	message.SetString(language.English, "impersonate_retry", "The chosen profile could not be resolved; choose again.")
	message.SetString(language.Polish, "impersonate_retry", "Nie udało się ustalić wybranego profilu; wybierz ponownie.")
	message.SetString(language.German, "impersonate_retry", "Das gewählte Profil konnte nicht aufgelöst werden; bitte erneut wählen.")

	// Readiness and remediation
	message.SetString(language.English, "tools_missing_context", "required external tools missing from PATH")
	message.SetString(language.Polish, "tools_missing_context", "brak wymaganych narzędzi zewnętrznych w PATH")
	message.SetString(language.German, "tools_missing_context", "erforderliche externe Werkzeuge fehlen im PATH")

	message.SetString(language.English, "install_packages_question", "Smartcard middleware packages are missing. Install them now?")
	message.SetString(language.Polish, "install_packages_question", "Brakuje pakietów oprogramowania pośredniczącego karty. Zainstalować je teraz?")
	message.SetString(language.German, "install_packages_question", "Smartcard-Middleware-Pakete fehlen. Jetzt installieren?")

	message.SetString(language.English, "start_service_question", "The smartcard service %s is not running. Start it now?")
	message.SetString(language.Polish, "start_service_question", "Usługa karty %s nie jest uruchomiona. Uruchomić ją teraz?")
	message.SetString(language.German, "start_service_question", "Der Smartcard-Dienst %s läuft nicht. Jetzt starten?")

	message.SetString(language.English, "libs_exe_context", "cannot determine executable location")
	message.SetString(language.Polish, "libs_exe_context", "nie można ustalić położenia pliku wykonywalnego")
	message.SetString(language.German, "libs_exe_context", "Speicherort der ausführbaren Datei nicht bestimmbar")

	message.SetString(language.English, "libs_missing_guidance", "The Certum PKCS#11 libraries were not found next to the executable.\nInstall proCertum CardManager and copy its libraries into %s.")
	message.SetString(language.Polish, "libs_missing_guidance", "Nie znaleziono bibliotek PKCS#11 Certum obok pliku wykonywalnego.\nZainstaluj proCertum CardManager i skopiuj jego biblioteki do %s.")
	message.SetString(language.German, "libs_missing_guidance", "Die Certum-PKCS#11-Bibliotheken wurden nicht neben der ausführbaren Datei gefunden.\nInstallieren Sie proCertum CardManager und kopieren Sie dessen Bibliotheken nach %s.")

	message.SetString(language.English, "libs_missing_context", "vendor library artifacts missing")
	message.SetString(language.Polish, "libs_missing_context", "brak bibliotek dostawcy")
	message.SetString(language.German, "libs_missing_context", "Herstellerbibliotheken fehlen")

	// Device session guard
	message.SetString(language.English, "no_reader_question", "No smartcard reader detected. Connect a reader and retry?")
	message.SetString(language.Polish, "no_reader_question", "Nie wykryto czytnika kart. Podłączyć czytnik i ponowić?")
	message.SetString(language.German, "no_reader_question", "Kein Kartenleser erkannt. Leser anschließen und erneut versuchen?")

	message.SetString(language.English, "no_card_question", "A reader is present but no card was found. Insert the card and retry?")
	message.SetString(language.Polish, "no_card_question", "Czytnik jest podłączony, ale nie znaleziono karty. Włożyć kartę i ponowić?")
	message.SetString(language.German, "no_card_question", "Ein Leser ist vorhanden, aber keine Karte. Karte einlegen und erneut versuchen?")

	// Menu
	message.SetString(language.English, "menu_title", "Card operations")
	message.SetString(language.Polish, "menu_title", "Operacje na karcie")
	message.SetString(language.German, "menu_title", "Kartenoperationen")

	message.SetString(language.English, "menu_list_slots", "List slots")
	message.SetString(language.Polish, "menu_list_slots", "Wyświetl sloty")
	message.SetString(language.German, "menu_list_slots", "Slots anzeigen")

	message.SetString(language.English, "menu_list_mechanisms", "List supported key mechanisms")
	message.SetString(language.Polish, "menu_list_mechanisms", "Wyświetl obsługiwane mechanizmy kluczy")
	message.SetString(language.German, "menu_list_mechanisms", "Unterstützte Schlüsselmechanismen anzeigen")

	message.SetString(language.English, "menu_list_objects", "List objects on card")
	message.SetString(language.Polish, "menu_list_objects", "Wyświetl obiekty na karcie")
	message.SetString(language.German, "menu_list_objects", "Objekte auf der Karte anzeigen")

	message.SetString(language.English, "menu_read_public_key", "Read a public key")
	message.SetString(language.Polish, "menu_read_public_key", "Odczytaj klucz publiczny")
	message.SetString(language.German, "menu_read_public_key", "Öffentlichen Schlüssel lesen")

	message.SetString(language.English, "menu_generate_keypair", "Generate a keypair")
	message.SetString(language.Polish, "menu_generate_keypair", "Wygeneruj parę kluczy")
	message.SetString(language.German, "menu_generate_keypair", "Schlüsselpaar erzeugen")

	message.SetString(language.English, "menu_unlock", "Login / unlock card")
	message.SetString(language.Polish, "menu_unlock", "Zaloguj / odblokuj kartę")
	message.SetString(language.German, "menu_unlock", "Anmelden / Karte entsperren")

	message.SetString(language.English, "menu_wipe", "Delete ALL objects on card")
	message.SetString(language.Polish, "menu_wipe", "Usuń WSZYSTKIE obiekty z karty")
	message.SetString(language.German, "menu_wipe", "ALLE Objekte auf der Karte löschen")

	message.SetString(language.English, "menu_exit", "Exit")
	message.SetString(language.Polish, "menu_exit", "Zakończ")
	message.SetString(language.German, "menu_exit", "Beenden")

	// Handlers
	message.SetString(language.English, "pin_prompt", "Card PIN")
	message.SetString(language.Polish, "pin_prompt", "PIN karty")
	message.SetString(language.German, "pin_prompt", "Karten-PIN")

	message.SetString(language.English, "pin_invalid", "Invalid PIN: %v")
	message.SetString(language.Polish, "pin_invalid", "Nieprawidłowy PIN: %v")
	message.SetString(language.German, "pin_invalid", "Ungültige PIN: %v")

	message.SetString(language.English, "op_failed", "Operation failed: %v")
	message.SetString(language.Polish, "op_failed", "Operacja nie powiodła się: %v")
	message.SetString(language.German, "op_failed", "Vorgang fehlgeschlagen: %v")

	message.SetString(language.English, "slots_header", "Available slots")
	message.SetString(language.Polish, "slots_header", "Dostępne sloty")
	message.SetString(language.German, "slots_header", "Verfügbare Slots")

	message.SetString(language.English, "mechanisms_header", "Supported mechanisms")
	message.SetString(language.Polish, "mechanisms_header", "Obsługiwane mechanizmy")
	message.SetString(language.German, "mechanisms_header", "Unterstützte Mechanismen")

	message.SetString(language.English, "objects_header", "Objects on card")
	message.SetString(language.Polish, "objects_header", "Obiekty na karcie")
	message.SetString(language.German, "objects_header", "Objekte auf der Karte")

	message.SetString(language.English, "label_prompt", "Object label")
	message.SetString(language.Polish, "label_prompt", "Etykieta obiektu")
	message.SetString(language.German, "label_prompt", "Objektbezeichnung")

	message.SetString(language.English, "label_placeholder", "my-key")
	message.SetString(language.Polish, "label_placeholder", "moj-klucz")
	message.SetString(language.German, "label_placeholder", "mein-schluessel")

	message.SetString(language.English, "label_invalid", "Invalid label: %v")
	message.SetString(language.Polish, "label_invalid", "Nieprawidłowa etykieta: %v")
	message.SetString(language.German, "label_invalid", "Ungültige Bezeichnung: %v")

	message.SetString(language.English, "object_not_found", "No public key found under label %q.")
	message.SetString(language.Polish, "object_not_found", "Nie znaleziono klucza publicznego o etykiecie %q.")
	message.SetString(language.German, "object_not_found", "Kein öffentlicher Schlüssel unter der Bezeichnung %q gefunden.")

	message.SetString(language.English, "keytype_prompt", "Key type (e.g. rsa:2048, EC:prime256v1)")
	message.SetString(language.Polish, "keytype_prompt", "Typ klucza (np. rsa:2048, EC:prime256v1)")
	message.SetString(language.German, "keytype_prompt", "Schlüsseltyp (z. B. rsa:2048, EC:prime256v1)")

	message.SetString(language.English, "keytype_invalid", "Invalid key type: %v")
	message.SetString(language.Polish, "keytype_invalid", "Nieprawidłowy typ klucza: %v")
	message.SetString(language.German, "keytype_invalid", "Ungültiger Schlüsseltyp: %v")

	message.SetString(language.English, "keygen_success", "Keypair %q generated.")
	message.SetString(language.Polish, "keygen_success", "Wygenerowano parę kluczy %q.")
	message.SetString(language.German, "keygen_success", "Schlüsselpaar %q erzeugt.")

	message.SetString(language.English, "keygen_device_full", "Card memory is full. Delete unused objects and try again.")
	message.SetString(language.Polish, "keygen_device_full", "Pamięć karty jest pełna. Usuń nieużywane obiekty i spróbuj ponownie.")
	message.SetString(language.German, "keygen_device_full", "Der Kartenspeicher ist voll. Löschen Sie ungenutzte Objekte und versuchen Sie es erneut.")

	message.SetString(language.English, "keygen_failed", "Key generation failed: %v")
	message.SetString(language.Polish, "keygen_failed", "Generowanie klucza nie powiodło się: %v")
	message.SetString(language.German, "keygen_failed", "Schlüsselerzeugung fehlgeschlagen: %v")

	message.SetString(language.English, "unlock_failed", "Login failed: %v")
	message.SetString(language.Polish, "unlock_failed", "Logowanie nie powiodło się: %v")
	message.SetString(language.German, "unlock_failed", "Anmeldung fehlgeschlagen: %v")

	message.SetString(language.English, "unlock_success", "Card unlocked.")
	message.SetString(language.Polish, "unlock_success", "Karta odblokowana.")
	message.SetString(language.German, "unlock_success", "Karte entsperrt.")

	// Bulk deletion
	message.SetString(language.English, "wipe_question", "This permanently deletes EVERY object on the card. Continue?")
	message.SetString(language.Polish, "wipe_question", "Ta operacja trwale usunie KAŻDY obiekt z karty. Kontynuować?")
	message.SetString(language.German, "wipe_question", "Dies löscht JEDEN Eintrag auf der Karte unwiderruflich. Fortfahren?")

	message.SetString(language.English, "wipe_affirmative", "Delete everything")
	message.SetString(language.Polish, "wipe_affirmative", "Usuń wszystko")
	message.SetString(language.German, "wipe_affirmative", "Alles löschen")

	message.SetString(language.English, "wipe_phrase_prompt", "Type %s to confirm")
	message.SetString(language.Polish, "wipe_phrase_prompt", "Wpisz %s, aby potwierdzić")
	message.SetString(language.German, "wipe_phrase_prompt", "Geben Sie %s zur Bestätigung ein")

	message.SetString(language.English, "wipe_cancelled", "Wipe cancelled.")
	message.SetString(language.Polish, "wipe_cancelled", "Anulowano czyszczenie.")
	message.SetString(language.German, "wipe_cancelled", "Löschvorgang abgebrochen.")

	message.SetString(language.English, "wipe_parse_mismatch", "The card reports objects but no labels could be parsed from the listing; refusing to continue.")
	message.SetString(language.Polish, "wipe_parse_mismatch", "Karta zgłasza obiekty, ale nie udało się odczytać etykiet z listy; przerwano operację.")
	message.SetString(language.German, "wipe_parse_mismatch", "Die Karte meldet Objekte, aber aus der Liste konnten keine Bezeichnungen gelesen werden; Vorgang wird verweigert.")

	message.SetString(language.English, "wipe_nothing", "No objects on the card; nothing to delete.")
	message.SetString(language.Polish, "wipe_nothing", "Brak obiektów na karcie; nie ma czego usuwać.")
	message.SetString(language.German, "wipe_nothing", "Keine Objekte auf der Karte; nichts zu löschen.")

	message.SetString(language.English, "wipe_starting", "starting")
	message.SetString(language.Polish, "wipe_starting", "rozpoczynanie")
	message.SetString(language.German, "wipe_starting", "Start")

	message.SetString(language.English, "wipe_done", "Deletion sweep finished; %d labels processed.")
	message.SetString(language.Polish, "wipe_done", "Zakończono usuwanie; przetworzono etykiet: %d.")
	message.SetString(language.German, "wipe_done", "Löschdurchlauf abgeschlossen; %d Bezeichnungen verarbeitet.")

	// Check subcommand
	message.SetString(language.English, "check_header", "Environment readiness")
	message.SetString(language.Polish, "check_header", "Gotowość środowiska")
	message.SetString(language.German, "check_header", "Umgebungsbereitschaft")

	message.SetString(language.English, "check_tools_missing", "External tools missing: %v")
	message.SetString(language.Polish, "check_tools_missing", "Brak narzędzi zewnętrznych: %v")
	message.SetString(language.German, "check_tools_missing", "Externe Werkzeuge fehlen: %v")

	message.SetString(language.English, "check_tools_ok", "All required external tools present")
	message.SetString(language.Polish, "check_tools_ok", "Wszystkie wymagane narzędzia zewnętrzne są dostępne")
	message.SetString(language.German, "check_tools_ok", "Alle erforderlichen externen Werkzeuge vorhanden")

	message.SetString(language.English, "check_packages_missing", "Middleware packages missing: %v")
	message.SetString(language.Polish, "check_packages_missing", "Brak pakietów oprogramowania pośredniczącego: %v")
	message.SetString(language.German, "check_packages_missing", "Middleware-Pakete fehlen: %v")

	message.SetString(language.English, "check_packages_ok", "All middleware packages installed")
	message.SetString(language.Polish, "check_packages_ok", "Wszystkie pakiety oprogramowania pośredniczącego zainstalowane")
	message.SetString(language.German, "check_packages_ok", "Alle Middleware-Pakete installiert")

	message.SetString(language.English, "check_libs_missing", "Vendor libraries missing: %v")
	message.SetString(language.Polish, "check_libs_missing", "Brak bibliotek dostawcy: %v")
	message.SetString(language.German, "check_libs_missing", "Herstellerbibliotheken fehlen: %v")

	message.SetString(language.English, "check_libs_ok", "Vendor libraries present beside the executable")
	message.SetString(language.Polish, "check_libs_ok", "Biblioteki dostawcy obecne obok pliku wykonywalnego")
	message.SetString(language.German, "check_libs_ok", "Herstellerbibliotheken neben der ausführbaren Datei vorhanden")

	message.SetString(language.English, "check_service_ok", "Service %s is running")
	message.SetString(language.Polish, "check_service_ok", "Usługa %s działa")
	message.SetString(language.German, "check_service_ok", "Dienst %s läuft")

	message.SetString(language.English, "check_service_stopped", "Service %s is not running")
	message.SetString(language.Polish, "check_service_stopped", "Usługa %s nie działa")
	message.SetString(language.German, "check_service_stopped", "Dienst %s läuft nicht")

	message.SetString(language.English, "check_all_ok", "Environment is ready for card operations.")
	message.SetString(language.Polish, "check_all_ok", "Środowisko jest gotowe do operacji na karcie.")
	message.SetString(language.German, "check_all_ok", "Die Umgebung ist bereit für Kartenoperationen.")
}
