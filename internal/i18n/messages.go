package i18n

// messages is the flat message catalog. Keys are grouped by the screen
// or service that emits them. English entries may be missing for keys
// that only ever surface in backend-originated flows; T falls back to
// Portuguese for those.
var messages = map[Lang]map[string]string{
	Portuguese: {
		// Login / auth
		"login.title":            "Iniciar sessão",
		"login.email":            "Email",
		"login.password":         "Palavra-passe",
		"login.remember":         "Lembrar email",
		"login.submit":           "Entrar",
		"login.failed":           "Email ou palavra-passe incorretos.",
		"login.forgot":           "Esqueceu a palavra-passe?",
		"login.name":             "Nome",
		"login.token":            "Código",
		"login.new_password":     "Nova palavra-passe",
		"login.confirm_password": "Confirmar palavra-passe",
		"login.register_title":   "Criar conta",
		"login.forgot_title":     "Recuperar palavra-passe",
		"login.reset_title":      "Redefinir palavra-passe",
		"login.setup_title":      "Ativar conta",
		"auth.session_expired":   "Sessão expirada. Inicie sessão novamente.",
		"auth.logged_out":        "Sessão terminada.",
		"auth.password_mismatch": "As palavras-passe não coincidem.",
		"auth.password_changed":  "Palavra-passe alterada com sucesso!",
		"auth.reset_sent":        "Se o email existir, receberá instruções de recuperação.",
		"auth.token_invalid":     "Link inválido ou expirado.",
		"auth.register_done":     "Conta criada. Inicie sessão.",
		"auth.reset_done":        "Palavra-passe redefinida. Inicie sessão.",
		"auth.setup_done":        "Conta ativada. Inicie sessão.",

		// Profile
		"profile.avatar_cached": "guardado localmente",

		// Tasks
		"task.created":        "Tarefa \"%s\" criada com sucesso!",
		"task.create_failed":  "Erro ao criar tarefa: %s",
		"task.updated":        "Tarefa \"%s\" atualizada com sucesso!",
		"task.update_failed":  "Erro ao atualizar tarefa: %s",
		"task.deleted":        "Tarefa \"%s\" eliminada.",
		"task.delete_failed":  "Erro ao eliminar tarefa: %s",
		"task.status_changed": "Tarefa \"%s\": %s → %s",
		"task.status_failed":  "Erro ao alterar o estado: %s",
		"task.comment_added":  "Comentário adicionado a \"%s\".",
		"task.comment_failed": "Erro ao adicionar comentário: %s",
		"task.load_failed":    "Erro ao carregar tarefas: %s",
		"task.not_found":      "Tarefa não encontrada.",
		"task.no_transition":  "A tarefa não pode mudar de estado.",

		// Users
		"user.created":         "Utilizador \"%s\" criado com sucesso!",
		"user.create_failed":   "Erro ao criar utilizador: %s",
		"user.updated":         "Utilizador \"%s\" atualizado com sucesso!",
		"user.update_failed":   "Erro ao atualizar utilizador: %s",
		"user.deleted":         "Utilizador \"%s\" eliminado.",
		"user.delete_failed":   "Erro ao eliminar utilizador: %s",
		"user.role_changed":    "Função de \"%s\" alterada para %s.",
		"user.role_failed":     "Erro ao alterar a função: %s",
		"user.load_failed":     "Erro ao carregar utilizadores: %s",
		"user.email_required":  "O email é obrigatório.",
		"user.email_invalid":   "Email inválido.",
		"user.email_taken":     "Já existe um utilizador com este email.",
		"user.name_required":   "O nome é obrigatório.",
		"user.delete_self":     "Não pode eliminar a sua própria conta.",
		"user.password_failed": "Erro ao alterar a palavra-passe: %s",

		// Notifications
		"notification.load_failed": "Erro ao carregar notificações: %s",

		// Remote error translation
		"error.network":      "Sem ligação ao servidor. Verifique a sua rede.",
		"error.bad_request":  "Pedido inválido. Verifique os dados introduzidos.",
		"error.forbidden":    "Não tem permissão para esta operação.",
		"error.not_found":    "Registo não encontrado.",
		"error.conflict":     "Conflito com dados existentes.",
		"error.rate_limited": "Demasiados pedidos. Tente novamente dentro de momentos.",
		"error.server":       "Erro no servidor. Tente novamente mais tarde.",
		"error.unknown":      "Ocorreu um erro inesperado.",

		// Forms
		"form.required":  "Campo obrigatório.",
		"form.date":      "Data inválida (AAAA-MM-DD).",
		"form.task_new":  "Nova tarefa",
		"form.task_edit": "Editar tarefa",
		"form.user_new":  "Novo utilizador",
		"form.user_edit": "Editar utilizador",

		// Shell
		"app.tasks":         "Tarefas",
		"app.dashboard":     "Painel",
		"app.users":         "Utilizadores",
		"app.notifications": "Notificações",
		"app.profile":       "Perfil",
		"app.quit_confirm":  "Sair da aplicação?",
	},
	English: {
		"login.title":            "Sign in",
		"login.email":            "Email",
		"login.password":         "Password",
		"login.remember":         "Remember email",
		"login.submit":           "Sign in",
		"login.failed":           "Incorrect email or password.",
		"login.forgot":           "Forgot your password?",
		"login.name":             "Name",
		"login.token":            "Code",
		"login.new_password":     "New password",
		"login.confirm_password": "Confirm password",
		"login.register_title":   "Create account",
		"login.forgot_title":     "Recover password",
		"login.reset_title":      "Reset password",
		"login.setup_title":      "Activate account",
		"auth.session_expired":   "Session expired. Please sign in again.",
		"auth.logged_out":        "Signed out.",
		"auth.password_mismatch": "Passwords do not match.",
		"auth.password_changed":  "Password changed successfully!",
		"auth.reset_sent":        "If the email exists, you will receive recovery instructions.",
		"auth.token_invalid":     "Invalid or expired link.",
		"auth.register_done":     "Account created. Please sign in.",
		"auth.reset_done":        "Password reset. Please sign in.",
		"auth.setup_done":        "Account activated. Please sign in.",

		"profile.avatar_cached": "cached locally",

		"task.created":        "Task \"%s\" created successfully!",
		"task.create_failed":  "Failed to create task: %s",
		"task.updated":        "Task \"%s\" updated successfully!",
		"task.update_failed":  "Failed to update task: %s",
		"task.deleted":        "Task \"%s\" deleted.",
		"task.delete_failed":  "Failed to delete task: %s",
		"task.status_changed": "Task \"%s\": %s → %s",
		"task.status_failed":  "Failed to change status: %s",
		"task.comment_added":  "Comment added to \"%s\".",
		"task.comment_failed": "Failed to add comment: %s",
		"task.load_failed":    "Failed to load tasks: %s",
		"task.not_found":      "Task not found.",
		"task.no_transition":  "The task cannot change status.",

		"user.created":         "User \"%s\" created successfully!",
		"user.create_failed":   "Failed to create user: %s",
		"user.updated":         "User \"%s\" updated successfully!",
		"user.update_failed":   "Failed to update user: %s",
		"user.deleted":         "User \"%s\" deleted.",
		"user.delete_failed":   "Failed to delete user: %s",
		"user.role_changed":    "Role of \"%s\" changed to %s.",
		"user.role_failed":     "Failed to change role: %s",
		"user.load_failed":     "Failed to load users: %s",
		"user.email_required":  "Email is required.",
		"user.email_invalid":   "Invalid email.",
		"user.email_taken":     "A user with this email already exists.",
		"user.name_required":   "Name is required.",
		"user.delete_self":     "You cannot delete your own account.",
		"user.password_failed": "Failed to change password: %s",

		"notification.load_failed": "Failed to load notifications: %s",

		"error.network":      "Cannot reach the server. Check your network.",
		"error.bad_request":  "Invalid request. Check the submitted data.",
		"error.forbidden":    "You do not have permission for this operation.",
		"error.not_found":    "Record not found.",
		"error.conflict":     "Conflict with existing data.",
		"error.rate_limited": "Too many requests. Try again shortly.",
		"error.server":       "Server error. Try again later.",
		"error.unknown":      "An unexpected error occurred.",

		"form.required":  "Required field.",
		"form.date":      "Invalid date (YYYY-MM-DD).",
		"form.task_new":  "New task",
		"form.task_edit": "Edit task",
		"form.user_new":  "New user",
		"form.user_edit": "Edit user",

		"app.tasks":         "Tasks",
		"app.dashboard":     "Dashboard",
		"app.users":         "Users",
		"app.notifications": "Notifications",
		"app.profile":       "Profile",
		"app.quit_confirm":  "Quit the application?",
	},
}
